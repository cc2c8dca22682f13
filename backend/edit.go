package backend

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/wansing/news/core"
)

// editTmpl is shared by create and update
var editTmpl = tmpl(`<div class="row">
		<div class="col-md-8">

			{{ if .Update }}
				<h1>Редактирование записи</h1>
			{{ else }}
				<h1>Новая запись</h1>
			{{ end }}

			{{ with index .Errors "" }}
				<div class="alert alert-danger" role="alert">{{ . }}</div>
			{{ end }}

			<form method="post" enctype="multipart/form-data" {{ if .Update }}action="update/{{ .Article.ID }}"{{ else }}action="edit"{{ end }}>
				<div class="form-group">
					<label for="title">Заголовок</label>
					<input class="form-control{{ if index .Errors "title" }} is-invalid{{ end }}" id="title" name="title" maxlength="200" value="{{ .Form.Title }}">
					{{ with index .Errors "title" }}
						<div class="invalid-feedback">{{ . }}</div>
					{{ end }}
				</div>
				<div class="form-group">
					<label for="body">Текст</label>
					<textarea class="form-control{{ if index .Errors "body" }} is-invalid{{ end }}" id="body" name="body" rows="10">{{ .Form.Body }}</textarea>
					{{ with index .Errors "body" }}
						<div class="invalid-feedback">{{ . }}</div>
					{{ end }}
				</div>
				<div class="form-group">
					<label for="image">Изображение</label>
					{{ if and .Update .Article.Image }}
						<p><img class="thumbnail" src="{{ .ImageURL .Article.Image }}" alt=""></p>
						<div class="form-check mb-2">
							<input class="form-check-input" type="checkbox" id="image-clear" name="image-clear" value="1">
							<label class="form-check-label" for="image-clear">Удалить изображение</label>
						</div>
					{{ end }}
					<input type="file" class="form-control-file{{ if index .Errors "image" }} is-invalid{{ end }}" id="image" name="image" accept="image/jpeg,image/png,image/gif">
					{{ with index .Errors "image" }}
						<div class="invalid-feedback">{{ . }}</div>
					{{ end }}
				</div>
				{{ if .Update }}
					<a class="btn btn-secondary" href="detail/{{ .Article.ID }}">Отмена</a>
					<button type="submit" class="btn btn-primary">Сохранить</button>
				{{ else }}
					<button type="submit" class="btn btn-primary">Создать</button>
				{{ end }}
			</form>

		</div>

		{{ if not .Update }}
			<div class="col-md-4">
				<h2>Последние записи</h2>
				<div class="list-group" id="recent">
					{{ range .Recent }}
						<a class="list-group-item list-group-item-action{{ if eq .ID $.Highlight }} active{{ end }}" href="detail/{{ .ID }}">
							{{ .Title }}
							<small class="d-block">{{ $.FormatDateTime .Created }}</small>
						</a>
					{{ end }}
				</div>
			</div>
		{{ end }}
	</div>`)

type editData struct {
	*context
	Update    bool
	Article   *core.Article // update only
	Form      *core.ArticleForm
	Errors    core.FormErrors
	Recent    []*core.Article // create only
	Highlight int             // id of the article which has just been created or updated
}

func create(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	var data = &editData{
		context: ctx,
		Form:    &core.ArticleForm{},
	}

	// POST

	if req.Method == http.MethodPost {

		form, err := ctx.ArticleForm()
		fe, err := formErrors(err)
		if err != nil {
			return err
		}
		data.Form = form

		if fe == nil {
			// the author is always the logged-in user, other form fields are ignored
			article, err := ctx.db.CreateArticle(req.Context(), ctx.User, form)
			if err != nil {
				return err
			}
			ctx.SuccessSeeOther("Запись создана ", fmt.Sprintf("/edit?id=%d", article.ID))
			return nil
		}

		data.Errors = fe
	}

	// sidebar

	data.Highlight, _ = strconv.Atoi(req.URL.Query().Get("id"))

	recent, err := ctx.db.RecentArticles(req.Context())
	if err != nil {
		return err
	}
	data.Recent = recent

	return editTmpl.Execute(w, data)
}

func update(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	article, err := ctx.article(params)
	if err != nil {
		return err
	}

	// check permission before reading the form

	if err := core.RequireAuthor(ctx.User, article); err != nil {
		return err
	}

	var data = &editData{
		context: ctx,
		Update:  true,
		Article: article,
		Form: &core.ArticleForm{
			Title: article.Title,
			Body:  article.Body,
		},
	}

	// POST

	if req.Method == http.MethodPost {

		form, err := ctx.ArticleForm()
		fe, err := formErrors(err)
		if err != nil {
			return err
		}
		data.Form = form

		if fe == nil {
			if err := ctx.db.UpdateArticle(req.Context(), ctx.User, article, form); err != nil {
				return err
			}
			ctx.SuccessSeeOther("Запись успешно обновлена", fmt.Sprintf("/edit?id=%d", article.ID))
			return nil
		}

		data.Errors = fe
	}

	return editTmpl.Execute(w, data)
}
