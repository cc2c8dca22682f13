package backend

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/wansing/news/core"
)

var listTmpl = tmpl(`<h1>Новости</h1>

	{{ range .Articles }}
		<div class="media mb-4 article">
			{{ if .Image }}
				<img class="mr-3 thumbnail" src="{{ $.ImageURL .Image }}" alt="">
			{{ end }}
			<div class="media-body">
				<h2><a href="detail/{{ .ID }}">{{ .Title }}</a></h2>
				<p class="text-muted small mb-1">{{ .AuthorName }}, {{ $.FormatDateTime .Created }}</p>
				<p class="excerpt">{{ Excerpt .Body }}</p>
			</div>
		</div>
	{{ else }}
		<p>Записей пока нет.</p>
	{{ end }}`)

type listData struct {
	*context
	Articles []*core.Article
}

func list(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	articles, err := ctx.db.AllArticles(req.Context())
	if err != nil {
		return err
	}

	return listTmpl.Execute(w, &listData{
		context:  ctx,
		Articles: articles,
	})
}
