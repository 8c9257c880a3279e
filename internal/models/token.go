package models

import (
	"time"

	"golang.org/x/oauth2"
)

// RefreshWindow is how close to expiry a token may get before it must be refreshed.
const RefreshWindow = 60 * time.Second

// Token is the OAuth token material held by a session.
//
// ExpiresAt is in epoch seconds; zero means the provider did not report an expiry.
type Token struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type,omitempty"`
	Scope        string `json:"scope,omitempty"`
	ExpiresAt    int64  `json:"expires_at"`
}

// NeedsRefresh reports whether fewer than [RefreshWindow] seconds remain before expiry.
func (t *Token) NeedsRefresh(now time.Time) bool {
	if t == nil || t.ExpiresAt == 0 {
		return false
	}
	return t.ExpiresAt-now.Unix() < int64(RefreshWindow/time.Second)
}

// Merge copies a refreshed token over t. The refresh token and scope are kept when fresh omits them.
func (t *Token) Merge(fresh *Token) {
	if fresh == nil {
		return
	}
	t.AccessToken = fresh.AccessToken
	t.ExpiresAt = fresh.ExpiresAt
	if fresh.TokenType != "" {
		t.TokenType = fresh.TokenType
	}
	if fresh.RefreshToken != "" {
		t.RefreshToken = fresh.RefreshToken
	}
	if fresh.Scope != "" {
		t.Scope = fresh.Scope
	}
}

// OAuth converts the token for use with an [oauth2.TokenSource].
func (t *Token) OAuth() *oauth2.Token {
	tok := &oauth2.Token{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    t.TokenType,
	}
	if t.ExpiresAt != 0 {
		tok.Expiry = time.Unix(t.ExpiresAt, 0)
	}
	return tok
}

// TokenFromOAuth converts a token returned by the exchange or refresh endpoints.
func TokenFromOAuth(tok *oauth2.Token) *Token {
	if tok == nil {
		return nil
	}

	t := &Token{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.TokenType,
	}
	if !tok.Expiry.IsZero() {
		t.ExpiresAt = tok.Expiry.Unix()
	}
	if scope, ok := tok.Extra("scope").(string); ok {
		t.Scope = scope
	}
	return t
}
