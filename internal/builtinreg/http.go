package builtinreg

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/flowlang/flo/internal/evaluator"
)

// httpModule wraps stdlib net/http directly — a deliberate stdlib
// choice: a handful of get/post built-ins don't justify pulling in a
// third-party HTTP client.
type httpModule struct{}

func (httpModule) Name() string { return "http" }

var httpClient = &http.Client{Timeout: 30 * time.Second}

func (httpModule) Register(out map[string]*evaluator.Builtin) {
	out["get"] = &evaluator.Builtin{Name: "get", Fn: func(args []evaluator.Object) evaluator.Object {
		if len(args) != 1 {
			return evaluator.NewError("get: requires exactly 1 argument")
		}
		url, ok := args[0].(*evaluator.String)
		if !ok {
			return evaluator.NewError("get: argument must be a String URL")
		}
		resp, err := httpClient.Get(url.Value)
		if err != nil {
			return evaluator.NewError("http get error: %v", err)
		}
		return responseRecord(resp)
	}}

	out["post"] = &evaluator.Builtin{Name: "post", Fn: func(args []evaluator.Object) evaluator.Object {
		if len(args) != 3 {
			return evaluator.NewError("post: requires exactly 3 arguments (url, contentType, body)")
		}
		url, ok1 := args[0].(*evaluator.String)
		ctype, ok2 := args[1].(*evaluator.String)
		body, ok3 := args[2].(*evaluator.String)
		if !ok1 || !ok2 || !ok3 {
			return evaluator.NewError("post: all arguments must be String")
		}
		resp, err := httpClient.Post(url.Value, ctype.Value, strings.NewReader(body.Value))
		if err != nil {
			return evaluator.NewError("http post error: %v", err)
		}
		return responseRecord(resp)
	}}
}

func responseRecord(resp *http.Response) evaluator.Object {
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return evaluator.NewError("http response read error: %v", err)
	}
	rec := evaluator.NewRecord()
	rec.Set("status", &evaluator.Int{Value: float64(resp.StatusCode)})
	rec.Set("body", &evaluator.String{Value: string(body)})
	return rec
}
