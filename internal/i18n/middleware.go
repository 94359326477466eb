package i18n

import "net/http"

// LangCookie remembers a language picked with ?lang=.
const LangCookie = "lang"

// Middleware picks a localizer per request from ?lang=, the lang cookie or
// Accept-Language, in that order, and falls back to the default language.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			prefs := []string{r.URL.Query().Get("lang")}
			if c, err := r.Cookie(LangCookie); err == nil {
				prefs = append(prefs, c.Value)
			}
			prefs = append(prefs, r.Header.Get("Accept-Language"))
			ctx := WithLocalizer(r.Context(), NewLocalizer(Match(prefs...)))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
