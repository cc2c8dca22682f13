package backend

import (
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog/hlog"
	"github.com/wansing/news/core"
)

var deleteTmpl = tmpl(`<h1>Удалить запись «{{ .Article.Title }}»?</h1>

	<p>Комментарии к записи будут удалены вместе с ней.</p>

	<form method="post" action="delete/{{ .Article.ID }}">
		<a class="btn btn-secondary" href="detail/{{ .Article.ID }}">Отмена</a>
		<button type="submit" class="btn btn-danger" name="delete" value="1">Удалить</button>
	</form>`)

const deleteFailed = "Не удалось удалить запись, попробуйте ещё раз."

type deleteData struct {
	*context
	Article *core.Article
}

func del(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	article, err := ctx.article(params)
	if err != nil {
		return err
	}

	// check permission, for the confirmation page too

	if err := core.RequireAuthor(ctx.User, article); err != nil {
		return err
	}

	// delete

	if req.Method == http.MethodPost {
		err := ctx.db.DeleteArticle(req.Context(), ctx.User, article)
		switch {
		case err == nil:
			ctx.SuccessSeeOther("Запись удалена", "/edit")
			return nil
		case errors.Is(err, core.ErrForbidden), errors.Is(err, core.ErrNotFound):
			return err
		default:
			// show the confirmation page again, so the user can retry
			hlog.FromRequest(req).Error().Err(err).Int("article", article.ID).Msg("deleting article")
			ctx.Danger(deleteFailed)
		}
	}

	return deleteTmpl.Execute(w, &deleteData{
		context: ctx,
		Article: article,
	})
}
