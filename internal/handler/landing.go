package handler

import (
	_ "embed"
	"net/http"
)

//go:embed static/index.html
var landingPage []byte

// NewLandingHandler はAPIの使い方を示すトップページを返すハンドラーを生成する。
// GET /
func NewLandingHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(landingPage)
	}
}
