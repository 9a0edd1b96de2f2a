package dto

// TQScanEvent lectura RFID en la estación de inspección (topic rfid.tq-scans).
type TQScanEvent struct {
	RFIDID    string    `json:"rfid_id" validate:"required"`
	PackageID string    `json:"package_id" validate:"required"`
	TQDate    ScanTime  `json:"tq_date"`
}

// BinScanEvent lectura RFID al ubicar una unidad en un bin (topic rfid.bin-scans).
type BinScanEvent struct {
	RFIDID     string    `json:"rfid_id" validate:"required"`
	PackageID  string    `json:"package_id" validate:"required"`
	BinID      string    `json:"bin_id" validate:"required"`
	BinnedDate ScanTime  `json:"binned_date"`
}

// TQScanBatchRequest body de POST /api/rfid/tq-scans.
type TQScanBatchRequest struct {
	Scans []TQScanEvent `json:"scans" validate:"required,min=1,max=500,dive"`
}

// BinScanBatchRequest body de POST /api/rfid/bin-scans.
type BinScanBatchRequest struct {
	Scans []BinScanEvent `json:"scans" validate:"required,min=1,max=500,dive"`
}
