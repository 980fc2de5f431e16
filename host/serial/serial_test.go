package serial

import (
	"testing"
	"time"

	"github.com/tarm/serial"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("/dev/ttyACM0")
	if cfg.Device != "/dev/ttyACM0" || cfg.Baud != 115200 || cfg.ReadTimeout != 100 {
		t.Errorf("Unexpected defaults %+v", cfg)
	}
}

func TestNativeConfig(t *testing.T) {
	nc := nativeConfig(&Config{Device: "COM3", Baud: 57600, ReadTimeout: 250})
	if nc.Name != "COM3" || nc.Baud != 57600 {
		t.Errorf("Unexpected port settings %+v", nc)
	}
	if nc.ReadTimeout != 250*time.Millisecond {
		t.Errorf("Expected 250ms timeout, got %v", nc.ReadTimeout)
	}
	if nc.Size != 8 || nc.Parity != serial.ParityNone || nc.StopBits != serial.Stop1 {
		t.Errorf("Expected 8N1, got %+v", nc)
	}
}

func TestOpenNilConfig(t *testing.T) {
	if _, err := Open(nil); err != ErrNoConfig {
		t.Errorf("Expected ErrNoConfig, got %v", err)
	}
}
