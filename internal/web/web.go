package web

import (
	"embed"
	"html/template"
	"strings"
	"time"

	"github.com/samber/lo"
)

//go:embed templates/*.html
var files embed.FS

// Templates 解析全部页面模板，imageURL 把存储里的 key 转成可访问的地址
func Templates(imageURL func(string) string) (*template.Template, error) {
	funcs := template.FuncMap{
		"imageURL": imageURL,
		"date": func(t time.Time) string {
			return t.UTC().Format("2 Jan 2006")
		},
		"pages": func(n int) []int {
			return lo.RangeFrom(1, n)
		},
		"paragraphs": func(s string) []string {
			lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
			return lo.Filter(lines, func(l string, _ int) bool { return strings.TrimSpace(l) != "" })
		},
	}
	return template.New("yatube").Funcs(funcs).ParseFS(files, "templates/*.html")
}
