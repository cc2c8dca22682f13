package backend

import (
	"fmt"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/wansing/news/core"
)

var detailTmpl = tmpl(`<article>
		<h1>{{ .Article.Title }}</h1>
		<p class="text-muted small">{{ .Article.AuthorName }}, {{ .FormatDateTime .Article.Created }}</p>

		{{ if .Article.Image }}
			<p><img class="article-image" src="{{ .ImageURL .Article.Image }}" alt=""></p>
		{{ end }}

		<div class="article-body">{{ .Article.Body }}</div>

		{{ if .IsAuthor .Article }}
			<p class="mt-3">
				<a class="btn btn-secondary" href="update/{{ .Article.ID }}">Редактировать</a>
				<a class="btn btn-danger" href="delete/{{ .Article.ID }}">Удалить</a>
			</p>
		{{ end }}
	</article>

	<h2 class="mt-4">Комментарии</h2>

	{{ range .Comments }}
		<div class="card mb-2 comment">
			<div class="card-body">
				<p class="text-muted small mb-1">{{ .AuthorName }}, {{ $.FormatDateTime .Created }}</p>
				<div class="comment-body">{{ .Body }}</div>
			</div>
		</div>
	{{ else }}
		<p>Комментариев пока нет.</p>
	{{ end }}

	<form method="post" class="mt-3">
		<div class="form-group">
			<label for="body">Ваш комментарий</label>
			<textarea class="form-control{{ if index .Errors "body" }} is-invalid{{ end }}" id="body" name="body" rows="3">{{ .Form.Body }}</textarea>
			{{ with index .Errors "body" }}
				<div class="invalid-feedback">{{ . }}</div>
			{{ end }}
		</div>
		<button type="submit" class="btn btn-primary">Отправить</button>
		{{ if not .LoggedIn }}
			<small class="form-text text-muted" id="comment-login">Комментировать могут только <a href="login">вошедшие</a> пользователи.</small>
		{{ end }}
	</form>`)

type detailData struct {
	*context
	Article  *core.Article
	Comments []*core.Comment
	Form     *core.CommentForm
	Errors   core.FormErrors
}

func detail(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	article, err := ctx.article(params)
	if err != nil {
		return err
	}

	var data = &detailData{
		context: ctx,
		Article: article,
		Form:    &core.CommentForm{},
	}

	// POST

	if req.Method == http.MethodPost {

		if !ctx.LoggedIn() {
			return core.ErrUnauthorized
		}

		form, err := ctx.CommentForm()
		fe, err := formErrors(err)
		if err != nil {
			return err
		}
		data.Form = form

		if fe == nil {
			if _, err := ctx.db.AddComment(req.Context(), ctx.User, article, form); err != nil {
				return err
			}
			ctx.SuccessSeeOther("Комментарий добавлен", fmt.Sprintf("/detail/%d", article.ID))
			return nil
		}

		data.Errors = fe
	}

	data.Comments, err = ctx.db.Comments(req.Context(), article.ID)
	if err != nil {
		return err
	}

	return detailTmpl.Execute(w, data)
}
