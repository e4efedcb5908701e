package session

import (
	"net/http"

	"github.com/404talk/webapp/pkg/httpx"
	"github.com/404talk/webapp/pkg/slogx"
)

// Guard returns middleware enforcing an access check before the protected
// handler runs. The check is evaluated on every request against current
// session state, so back-navigation after logout re-checks. Denials redirect
// with 303 and never write any protected bytes first.
func Guard(state State, opts GuardOptions) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision := Evaluate(opts, state)
			if !decision.Allowed {
				slogx.FromContext(r.Context()).Info("access denied",
					"reason", decision.Reason,
					"redirect_to", decision.RedirectTo,
				)
				httpx.NoCache(w)
				http.Redirect(w, r, decision.RedirectTo, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
