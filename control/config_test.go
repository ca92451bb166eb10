package control_test

import (
	"testing"
	"time"

	"github.com/relaywire/wsframe/control"
)

func TestConfigStoreSnapshotAndReload(t *testing.T) {
	cs := control.NewConfigStore()

	got := make(chan control.Config, 1)
	cs.OnReload(func(cfg control.Config) { got <- cfg })

	cs.SetConfig(control.Config{MaxMessagePayload: 4096, Compressed: true})

	select {
	case cfg := <-got:
		if cfg.MaxMessagePayload != 4096 || !cfg.Compressed {
			t.Errorf("listener got %+v", cfg)
		}
	case <-time.After(time.Second):
		t.Fatal("reload listener was not invoked")
	}

	if snap := cs.GetSnapshot(); snap.MaxMessagePayload != 4096 {
		t.Errorf("GetSnapshot() = %+v", snap)
	}
}
