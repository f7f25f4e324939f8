package exercise

import "strings"

// RegisterBuiltins installs the validators for the stock LuxiLearn courses.
// Lessons without an entry here use the solution-comparison fallback.
func RegisterBuiltins(r *Registry) {
	r.Register("html-bases", "premiere-page", func(code string) Result {
		lower := strings.ToLower(code)
		if !strings.Contains(lower, "<h1>") || !strings.Contains(lower, "</h1>") {
			return Result{Success: false, Message: "Votre page doit contenir un titre <h1>."}
		}
		return Result{Success: true}
	})

	r.Register("javascript-intro", "variables", func(code string) Result {
		lower := strings.ToLower(code)
		if !strings.Contains(lower, "let ") && !strings.Contains(lower, "const ") {
			return Result{Success: false, Message: "Déclarez une variable avec let ou const."}
		}
		if !strings.Contains(code, "=") {
			return Result{Success: false, Message: "Votre variable doit être initialisée."}
		}
		return Result{Success: true}
	})

	r.Register("css-premiers-pas", "selecteurs", func(code string) Result {
		lower := strings.ToLower(code)
		if !strings.Contains(lower, "{") || !strings.Contains(lower, "}") {
			return Result{Success: false, Message: "Une règle CSS s'écrit sélecteur { propriété: valeur; }."}
		}
		if !strings.Contains(lower, "color") {
			return Result{Success: false, Message: "Utilisez la propriété color."}
		}
		return Result{Success: true}
	})
}
