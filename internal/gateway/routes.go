package gateway

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Route は転送先の定義。
type Route struct {
	// ID はルートの識別子。ログとメトリクスのラベルに使う。
	ID string `yaml:"id"`
	// Prefix はこのルートが受け持つパスの接頭辞（例: /resume）。
	Prefix string `yaml:"prefix"`
	// URI は転送先サービスのベースURL。
	URI string `yaml:"uri"`
}

// routeFile はルート定義ファイルの構造。
type routeFile struct {
	Routes []Route `yaml:"routes"`
}

// LoadRoutes はYAMLファイルからルート定義を読み込む。
//
//	routes:
//	  - id: resume-client-service
//	    prefix: /resume
//	    uri: http://resume-client-service:8082
func LoadRoutes(path string) ([]Route, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ルート定義ファイルの読み込みに失敗: %w", err)
	}
	return ParseRoutes(data)
}

// ParseRoutes はYAMLのルート定義を解析する。
func ParseRoutes(data []byte) ([]Route, error) {
	var f routeFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("ルート定義の解析に失敗: %w", err)
	}
	if len(f.Routes) == 0 {
		return nil, errors.New("ルートが1件も定義されていません")
	}
	return f.Routes, nil
}

// compiledRoute は転送先URLを解析済みのルート。
type compiledRoute struct {
	Route
	target *url.URL
}

// RouteTable は宣言順に評価するルートの一覧。
// 生成後は変更されない。
type RouteTable struct {
	routes []compiledRoute
}

// NewRouteTable はルート定義を検証してRouteTableを生成する。
func NewRouteTable(routes []Route) (*RouteTable, error) {
	t := &RouteTable{routes: make([]compiledRoute, 0, len(routes))}
	ids := make(map[string]struct{}, len(routes))
	for i, r := range routes {
		if r.ID == "" || r.Prefix == "" || r.URI == "" {
			return nil, fmt.Errorf("ルート %d: id, prefix, uri は必須です", i)
		}
		if !strings.HasPrefix(r.Prefix, "/") {
			return nil, fmt.Errorf("ルート %s: prefix は / で始まる必要があります: %q", r.ID, r.Prefix)
		}
		if _, dup := ids[r.ID]; dup {
			return nil, fmt.Errorf("ルート %s: id が重複しています", r.ID)
		}
		ids[r.ID] = struct{}{}

		target, err := url.Parse(r.URI)
		if err != nil {
			return nil, fmt.Errorf("ルート %s: uri の解析に失敗: %w", r.ID, err)
		}
		if (target.Scheme != "http" && target.Scheme != "https") || target.Host == "" {
			return nil, fmt.Errorf("ルート %s: uri は http(s)://host 形式である必要があります: %q", r.ID, r.URI)
		}
		t.routes = append(t.routes, compiledRoute{Route: r, target: target})
	}
	return t, nil
}

// Match はパスに一致する最初のルートを返す。
// 接頭辞はパスのセグメント単位で比較する（/auth は /authority に一致しない）。
func (t *RouteTable) Match(path string) (Route, bool) {
	r, ok := t.match(path)
	return r.Route, ok
}

func (t *RouteTable) match(path string) (compiledRoute, bool) {
	for _, r := range t.routes {
		prefix := strings.TrimSuffix(r.Prefix, "/")
		if prefix == "" || path == prefix || strings.HasPrefix(path, prefix+"/") {
			return r, true
		}
	}
	return compiledRoute{}, false
}

// targetURL は転送先のURLを組み立てる。パスとクエリは元のリクエストのまま引き継ぐ。
func (r compiledRoute) targetURL(path, rawQuery string) string {
	u := *r.target
	u.Path = strings.TrimSuffix(u.Path, "/") + path
	u.RawPath = ""
	u.RawQuery = rawQuery
	return u.String()
}
