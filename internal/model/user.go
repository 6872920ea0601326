// Package model はドメインモデルを定義する。
package model

import "time"

// User はエクササイズログの持ち主を表す。
type User struct {
	ID        string
	Username  string
	CreatedAt time.Time
}

// Exercise はユーザーのログに記録された1回のエクササイズを表す。
// Userに排他的に所有され、単独のライフサイクルを持たない。
type Exercise struct {
	Description string
	Duration    int
	Date        time.Time
}

// UserWithLog はユーザーとそのエクササイズログを結合したモデル。
// Countはログ長から常に算出され、永続化されない。
type UserWithLog struct {
	User
	Log   []Exercise
	Count int
}

// LogQuery はログ取得時のフィルタ条件を表す。
// nilフィールドは条件なしを意味する。
type LogQuery struct {
	From  *time.Time // この日時以降（含む）
	To    *time.Time // この日時以前（含む）
	Limit *int       // フィルタ後の先頭からの最大件数
}
