package core

import "errors"

// Configuration errors. Every configurator validates before it writes a
// register, so a returned error (other than ErrCalibrationFailed) means the
// hardware was not touched.
var (
	ErrNullReference           = errors.New("missing device, port or address")
	ErrIncompatibleChannelMode = errors.New("differential mode and channel mismatch")
	ErrUnsupportedDevice       = errors.New("unsupported peripheral instance")
	ErrCalibrationFailed       = errors.New("ADC calibration failed")
	ErrIllegalAddress          = errors.New("DMA address outside legal regions")
	ErrChannelBusy             = errors.New("DMA channel busy")
	ErrByteCountOutOfRange     = errors.New("DMA byte count exceeds 20 bits")
	ErrInvalidField            = errors.New("reserved or out-of-range field code")
)
