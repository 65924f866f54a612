package qrsession

import (
	"encoding/json"
	"errors"
)

// Token type tags scanned by the mobile client. The serialized shape is a
// contract: any scanner parses exactly {"type": ..., "session_id": ...}.
const (
	TokenTypeCheckIn  = "LEDANG_CHECKIN"
	TokenTypeCheckOut = "LEDANG_CHECKOUT"
)

type Token struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id"`
}

// EncodeToken builds the QR payload for a session. The token embeds the
// session's own id, so it can only be issued after the row exists.
func EncodeToken(qrType, sessionID string) (string, error) {
	tokenType, err := tokenTypeFor(qrType)
	if err != nil {
		return "", err
	}
	raw, err := json.Marshal(Token{Type: tokenType, SessionID: sessionID})
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func DecodeToken(value string) (Token, error) {
	var tok Token
	if err := json.Unmarshal([]byte(value), &tok); err != nil {
		return Token{}, err
	}
	if tok.Type != TokenTypeCheckIn && tok.Type != TokenTypeCheckOut {
		return Token{}, errors.New("unknown token type")
	}
	if tok.SessionID == "" {
		return Token{}, errors.New("token missing session_id")
	}
	return tok, nil
}

func tokenTypeFor(qrType string) (string, error) {
	switch qrType {
	case TypeCheckIn:
		return TokenTypeCheckIn, nil
	case TypeCheckOut:
		return TokenTypeCheckOut, nil
	default:
		return "", errors.New("unknown qr type")
	}
}
