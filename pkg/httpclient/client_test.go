package httpclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// testRequest はテストサーバーが受け取ったリクエスト情報を保持する構造体。
type testRequest struct {
	// Method はHTTPメソッド。
	Method string
	// Path はリクエストパス。
	Path string
	// Body はリクエストボディ。
	Body []byte
	// Headers はリクエストヘッダー。
	Headers http.Header
}

// testPayload はテスト用のリクエスト/レスポンスペイロード。
type testPayload struct {
	// Name はテスト用の名前フィールド。
	Name string `json:"name"`
	// Value はテスト用の値フィールド。
	Value int `json:"value"`
}

// TestNew はNew関数でクライアントが正しく生成されることを検証する。
func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("クライアントが正常に生成されること", func(t *testing.T) {
		t.Parallel()

		client := New("http://localhost:8081")
		if client == nil {
			t.Fatal("New()がnilを返した")
		}
		if client.baseURL != "http://localhost:8081" {
			t.Errorf("baseURL = %q, want %q", client.baseURL, "http://localhost:8081")
		}
		if client.httpClient == nil {
			t.Fatal("httpClientがnil")
		}
	})

	t.Run("デフォルトのタイムアウトが30秒に設定されていること", func(t *testing.T) {
		t.Parallel()

		client := New("http://localhost:8081")
		if client.httpClient.Timeout != 30*time.Second {
			t.Errorf("Timeout = %v, want 30s", client.httpClient.Timeout)
		}
	})

	t.Run("WithTimeoutでタイムアウトを変更できること", func(t *testing.T) {
		t.Parallel()

		client := New("http://localhost:8081", WithTimeout(2*time.Second))
		if client.httpClient.Timeout != 2*time.Second {
			t.Errorf("Timeout = %v, want 2s", client.httpClient.Timeout)
		}
	})
}

// TestPostJSON はPostJSON関数を検証する。
func TestPostJSON(t *testing.T) {
	t.Parallel()

	t.Run("正常にPOSTリクエストを送信してレスポンスを取得できること", func(t *testing.T) {
		t.Parallel()

		var received testRequest
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			received.Method = r.Method
			received.Path = r.URL.Path
			received.Body, _ = io.ReadAll(r.Body)
			received.Headers = r.Header

			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(testPayload{Name: "response", Value: 200})
		}))
		defer ts.Close()

		client := New(ts.URL)
		var result testPayload

		err := client.PostJSON(context.Background(), "/auth/login", testPayload{Name: "request", Value: 100}, &result)
		if err != nil {
			t.Fatalf("PostJSON()でエラーが発生: %v", err)
		}

		if received.Method != http.MethodPost {
			t.Errorf("Method = %q, want %q", received.Method, http.MethodPost)
		}
		if received.Path != "/auth/login" {
			t.Errorf("Path = %q, want %q", received.Path, "/auth/login")
		}

		var sentBody testPayload
		if err := json.Unmarshal(received.Body, &sentBody); err != nil {
			t.Fatalf("リクエストボディのパースに失敗: %v", err)
		}
		if sentBody.Name != "request" || sentBody.Value != 100 {
			t.Errorf("sent body = %+v, want {request 100}", sentBody)
		}
		if got := received.Headers.Get("Content-Type"); got != "application/json" {
			t.Errorf("Content-Type = %q, want %q", got, "application/json")
		}
		if result.Name != "response" || result.Value != 200 {
			t.Errorf("result = %+v, want {response 200}", result)
		}
	})

	t.Run("bodyがnilの場合は空ボディで送信されること", func(t *testing.T) {
		t.Parallel()

		var receivedBody []byte
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			receivedBody, _ = io.ReadAll(r.Body)
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"name":"ok","value":1}`))
		}))
		defer ts.Close()

		client := New(ts.URL)
		var result testPayload
		if err := client.PostJSON(context.Background(), "/auth/validate", nil, &result); err != nil {
			t.Fatalf("PostJSON()でエラーが発生: %v", err)
		}
		if len(receivedBody) != 0 {
			t.Errorf("ボディが空ではない: %q", string(receivedBody))
		}
	})

	t.Run("WithBearerでAuthorizationヘッダーが設定されること", func(t *testing.T) {
		t.Parallel()

		var receivedAuth string
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			receivedAuth = r.Header.Get("Authorization")
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{}`))
		}))
		defer ts.Close()

		client := New(ts.URL)
		if err := client.PostJSON(context.Background(), "/auth/validate", nil, nil, WithBearer("abc.def.ghi")); err != nil {
			t.Fatalf("PostJSON()でエラーが発生: %v", err)
		}
		if receivedAuth != "Bearer abc.def.ghi" {
			t.Errorf("Authorization = %q, want %q", receivedAuth, "Bearer abc.def.ghi")
		}
	})

	t.Run("サーバーが500エラーを返した場合にStatusErrorが返ること", func(t *testing.T) {
		t.Parallel()

		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error":"internal server error"}`))
		}))
		defer ts.Close()

		client := New(ts.URL)
		var result testPayload

		err := client.PostJSON(context.Background(), "/auth/validate", nil, &result)
		if err == nil {
			t.Fatal("PostJSON()がエラーを返すべきだが、nilが返った")
		}
		se, ok := AsStatusError(err)
		if !ok {
			t.Fatalf("StatusErrorではない: %v", err)
		}
		if se.StatusCode != http.StatusInternalServerError {
			t.Errorf("StatusCode = %d, want %d", se.StatusCode, http.StatusInternalServerError)
		}
		if se.Body != `{"error":"internal server error"}` {
			t.Errorf("Body = %q", se.Body)
		}
	})

	t.Run("resultがnilの場合でもエラーにならないこと", func(t *testing.T) {
		t.Parallel()

		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"status":"created"}`))
		}))
		defer ts.Close()

		client := New(ts.URL)
		if err := client.PostJSON(context.Background(), "/auth/register", testPayload{Name: "x"}, nil); err != nil {
			t.Fatalf("PostJSON()でエラーが発生: %v", err)
		}
	})

	t.Run("キャンセルされたコンテキストでエラーが返ること", func(t *testing.T) {
		t.Parallel()

		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(`{}`))
		}))
		defer ts.Close()

		client := New(ts.URL)
		ctx, cancel := context.WithCancel(context.Background())
		cancel() // 即座にキャンセル

		if err := client.PostJSON(ctx, "/auth/validate", nil, &testPayload{}); err == nil {
			t.Fatal("PostJSON()がエラーを返すべきだが、nilが返った")
		}
	})

	t.Run("タイムアウトを超えた場合にエラーが返ること", func(t *testing.T) {
		t.Parallel()

		release := make(chan struct{})
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer ts.Close()
		defer close(release)

		client := New(ts.URL, WithTimeout(50*time.Millisecond))
		if err := client.PostJSON(context.Background(), "/auth/validate", nil, &testPayload{}); err == nil {
			t.Fatal("PostJSON()がエラーを返すべきだが、nilが返った")
		}
	})
}

// TestPost はPost関数を検証する。
func TestPost(t *testing.T) {
	t.Parallel()

	t.Run("指定したContent-Typeとボディがそのまま送信されること", func(t *testing.T) {
		t.Parallel()

		var received testRequest
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			received.Body, _ = io.ReadAll(r.Body)
			received.Headers = r.Header
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"name":"ranked","value":1}`))
		}))
		defer ts.Close()

		client := New(ts.URL)
		var result testPayload
		contentType := "multipart/form-data; boundary=xyz"
		if err := client.Post(context.Background(), "/rank", contentType, strings.NewReader("raw-body"), &result); err != nil {
			t.Fatalf("Post()でエラーが発生: %v", err)
		}

		if got := received.Headers.Get("Content-Type"); got != contentType {
			t.Errorf("Content-Type = %q, want %q", got, contentType)
		}
		if string(received.Body) != "raw-body" {
			t.Errorf("Body = %q, want %q", string(received.Body), "raw-body")
		}
		if result.Name != "ranked" {
			t.Errorf("result.Name = %q, want %q", result.Name, "ranked")
		}
	})

	t.Run("不正なJSONレスポンスでエラーが返ること", func(t *testing.T) {
		t.Parallel()

		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(`{invalid json}`))
		}))
		defer ts.Close()

		client := New(ts.URL)
		var result testPayload
		err := client.Post(context.Background(), "/rank", "text/plain", strings.NewReader("x"), &result)
		if err == nil {
			t.Fatal("Post()がエラーを返すべきだが、nilが返った")
		}
		if _, ok := AsStatusError(err); ok {
			t.Error("デコード失敗がStatusErrorとして返された")
		}
	})
}

// TestWithRequestID はリクエストIDの伝播を検証する。
func TestWithRequestID(t *testing.T) {
	t.Parallel()

	t.Run("コンテキストのリクエストIDがヘッダーに伝播されること", func(t *testing.T) {
		t.Parallel()

		var receivedID string
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			receivedID = r.Header.Get(HeaderRequestID)
			w.Write([]byte(`{}`))
		}))
		defer ts.Close()

		client := New(ts.URL)
		ctx := WithRequestID(context.Background(), "req-123")
		if err := client.PostJSON(ctx, "/auth/validate", nil, nil); err != nil {
			t.Fatalf("PostJSON()でエラーが発生: %v", err)
		}
		if receivedID != "req-123" {
			t.Errorf("%s = %q, want %q", HeaderRequestID, receivedID, "req-123")
		}
	})

	t.Run("リクエストIDが未設定の場合はヘッダーが送信されないこと", func(t *testing.T) {
		t.Parallel()

		var hasHeader bool
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, hasHeader = r.Header[http.CanonicalHeaderKey(HeaderRequestID)]
			w.Write([]byte(`{}`))
		}))
		defer ts.Close()

		client := New(ts.URL)
		if err := client.PostJSON(context.Background(), "/auth/validate", nil, nil); err != nil {
			t.Fatalf("PostJSON()でエラーが発生: %v", err)
		}
		if hasHeader {
			t.Error("リクエストIDが未設定なのにヘッダーが送信された")
		}
	})
}

// TestPostJSON_SerializationError はシリアライズ不可能なボディでエラーが返ることを検証する。
func TestPostJSON_SerializationError(t *testing.T) {
	t.Parallel()

	client := New("http://127.0.0.1:1")
	// json.Marshalでエラーになるチャネル型を渡す
	if err := client.PostJSON(context.Background(), "/auth/register", make(chan int), nil); err == nil {
		t.Fatal("PostJSON()がエラーを返すべきだが、nilが返った")
	}
}
