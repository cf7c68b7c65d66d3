//go:build !bullet

package bullet_test

import (
	"testing"

	"github.com/samuelfneumann/gosolo/environment/bullet"
)

func TestConnectWithoutEngineSupport(t *testing.T) {
	client, err := bullet.Connect(bullet.Direct)
	if err == nil {
		t.Error("connecting without engine support should fail")
	}
	if client != nil {
		t.Error("no client should be returned on a failed connection")
	}
}
