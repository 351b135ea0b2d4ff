package models

import "time"

// Session is one authenticated browser session. It carries the eBay OAuth
// token material server-side; the client only ever sees the opaque session
// token in a cookie.
type Session struct {
	Token        string    `json:"-"`
	AccessToken  string    `json:"-"`
	RefreshToken string    `json:"-"`
	TokenType    string    `json:"token_type"`
	DebugMode    bool      `json:"debug_mode"`
	Expiry       time.Time `json:"expiry"`
}
