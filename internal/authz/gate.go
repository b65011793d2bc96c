package authz

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const deniedKey = "You do not have access to this section."

func init() {
	_ = message.SetString(language.English, deniedKey, "You do not have access to this section.")
	_ = message.SetString(language.Indonesian, deniedKey, "Anda tidak memiliki akses ke bagian ini.")
}

// DeniedNotice returns the localized access-denied message for the tag,
// falling back to English for unsupported languages.
func DeniedNotice(tag language.Tag) string {
	return message.NewPrinter(tag).Sprintf(deniedKey)
}

// Gate is the render-time access check used inside an already-served page.
// It comes in two forms: a permission check against the role table, or a
// direct role-membership check. Exactly one of Permission or AllowedRoles
// should be set; a zero Gate denies everything.
//
// This is defense in depth. The route Guard is the security boundary; a gate
// only decides which branch of UI to emit.
type Gate struct {
	Permission   string
	AllowedRoles []Role
}

// RequirePermission builds a permission-form gate.
func RequirePermission(permission string) Gate {
	return Gate{Permission: permission}
}

// RequireRoles builds an allowed-roles-form gate.
func RequireRoles(roles ...Role) Gate {
	return Gate{AllowedRoles: roles}
}

// Allows reports whether the role passes the gate. Never errors; unknown
// roles are denied.
func (g Gate) Allows(role Role) bool {
	if g.Permission != "" {
		return HasPermission(role, g.Permission)
	}
	for _, allowed := range g.AllowedRoles {
		if role == allowed {
			return true
		}
	}
	return false
}

// Render emits children when the gate passes and the default fallback
// otherwise: the permission form falls back to nothing, the roles form to a
// localized denied notice.
func (g Gate) Render(role Role, tag language.Tag, children string) string {
	if g.Allows(role) {
		return children
	}
	if g.Permission != "" {
		return ""
	}
	return DeniedNotice(tag)
}

// RenderWithFallback emits children when the gate passes, fallback otherwise.
func (g Gate) RenderWithFallback(role Role, children, fallback string) string {
	if g.Allows(role) {
		return children
	}
	return fallback
}
