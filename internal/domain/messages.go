package domain

// Real-time message types
const (
	MESSAGE_TYPE_INIT        = "init"
	MESSAGE_TYPE_GRID_UPDATE = "gridUpdate"
	MESSAGE_TYPE_KEEP_ALIVE  = "keepAlive"
)

// InitPayload is the snapshot sent to a client right after it connects
type InitPayload struct {
	PaintGrid  []Tile `json:"paintGrid"`
	LastPaints []Tile `json:"lastPaints"`
	Stats      Stats  `json:"stats"`
}

// GridUpdatePayload is broadcast after a reconciliation cycle that changed at least one tile
type GridUpdatePayload struct {
	UpdatedGrid []Tile `json:"updatedGrid"`
	LastPaints  []Tile `json:"lastPaints"`
	Stats       Stats  `json:"stats"`
}
