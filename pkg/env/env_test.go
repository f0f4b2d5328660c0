package env

import (
	"testing"
	"time"
)

// t.Setenv を使うため、このファイルのテストは並列実行しない。

// TestGetOr はGetOr関数を検証する。
func TestGetOr(t *testing.T) {
	t.Run("環境変数が設定されている場合はその値を返すこと", func(t *testing.T) {
		t.Setenv("RESUMERANK_TEST_STRING", "http://auth:8081")
		if got := GetOr("RESUMERANK_TEST_STRING", "http://localhost:8081"); got != "http://auth:8081" {
			t.Errorf("GetOr() = %q, want %q", got, "http://auth:8081")
		}
	})

	t.Run("未設定の場合はデフォルト値を返すこと", func(t *testing.T) {
		t.Setenv("RESUMERANK_TEST_STRING", "")
		if got := GetOr("RESUMERANK_TEST_STRING", "default"); got != "default" {
			t.Errorf("GetOr() = %q, want %q", got, "default")
		}
	})
}

// TestDurationOr はDurationOr関数を検証する。
func TestDurationOr(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{name: "正しい形式の値を解釈できること", value: "3s", want: 3 * time.Second},
		{name: "未設定の場合はデフォルト値になること", value: "", want: 5 * time.Second},
		{name: "不正な形式の場合はデフォルト値になること", value: "soon", want: 5 * time.Second},
		{name: "負の値の場合はデフォルト値になること", value: "-1s", want: 5 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("RESUMERANK_TEST_DURATION", tt.value)
			if got := DurationOr("RESUMERANK_TEST_DURATION", 5*time.Second); got != tt.want {
				t.Errorf("DurationOr() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestBoolOr はBoolOr関数を検証する。
func TestBoolOr(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  bool
	}{
		{name: "trueを解釈できること", value: "true", want: true},
		{name: "1を解釈できること", value: "1", want: true},
		{name: "falseを解釈できること", value: "false", want: false},
		{name: "不正な値の場合はデフォルト値になること", value: "yes please", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("RESUMERANK_TEST_BOOL", tt.value)
			if got := BoolOr("RESUMERANK_TEST_BOOL", false); got != tt.want {
				t.Errorf("BoolOr() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestInt64Or はInt64Or関数を検証する。
func TestInt64Or(t *testing.T) {
	t.Run("数値を解釈できること", func(t *testing.T) {
		t.Setenv("RESUMERANK_TEST_INT", "1024")
		if got := Int64Or("RESUMERANK_TEST_INT", 1); got != 1024 {
			t.Errorf("Int64Or() = %d, want %d", got, 1024)
		}
	})

	t.Run("0以下の場合はデフォルト値になること", func(t *testing.T) {
		t.Setenv("RESUMERANK_TEST_INT", "0")
		if got := Int64Or("RESUMERANK_TEST_INT", 7); got != 7 {
			t.Errorf("Int64Or() = %d, want %d", got, 7)
		}
	})
}
