package model

// TestStep is one step of a Zephyr test as stored against an issue.
// OrderID is 1-based.
type TestStep struct {
	ID      int64  `json:"id"`
	OrderID int    `json:"order_id"`
	Step    string `json:"step"`
	Data    string `json:"data,omitempty"`
	Result  string `json:"result,omitempty"`
}
