package accesscontrol

import (
	"errors"
	"fmt"

	"github.com/lachlan2k/imob-admin/internal/session"
	"github.com/lachlan2k/imob-admin/internal/utils"
)

// These only decide what the UI offers. The backend still checks every call it receives.

var (
	adminSections = []string{"/usuarios", "/bairros", "/tipos-imoveis"}
	staffSections = []string{"/imoveis"}
	userSections  = []string{"/dashboard"}
)

var (
	ErrStillLoading = errors.New("session hasn't been resolved yet")
	ErrNotSignedIn  = errors.New("not signed in")
	ErrForbidden    = errors.New("not allowed")
)

type NavLink struct {
	Label string `json:"label"`
	Href  string `json:"href"`
}

// Navigation composes the header links for whoever is in the snapshot.
// Nothing is offered while the session is still loading.
func Navigation(snap session.Snapshot) []NavLink {
	links := make([]NavLink, 0)

	if !snap.Settled() {
		return links
	}

	if snap.IsAnonymous() {
		return append(links, NavLink{Label: "Entrar", Href: "/login"})
	}

	if snap.IsAdmin() {
		links = append(links,
			NavLink{Label: "Usuários", Href: "/usuarios"},
			NavLink{Label: "Tipos de Imóveis", Href: "/tipos-imoveis"},
			NavLink{Label: "Bairros", Href: "/bairros"},
		)
	}

	if snap.IsAdmin() || snap.IsBroker() {
		links = append(links,
			NavLink{Label: "Imóveis", Href: "/imoveis"},
			NavLink{Label: "Meus Imóveis", Href: "/imoveis/meus"},
		)
	}

	return append(links, NavLink{Label: "Sair", Href: "/logout"})
}

// CheckAccess decides whether the screen at path should be shown to the snapshot's user.
// Paths outside the known sections are open to anyone.
func CheckAccess(snap session.Snapshot, path string) error {
	path = utils.CleanPath(path)

	restricted := utils.SliceHasPrefixMatch(adminSections, path) ||
		utils.SliceHasPrefixMatch(staffSections, path) ||
		utils.SliceHasPrefixMatch(userSections, path)
	if !restricted {
		return nil
	}

	if !snap.Settled() {
		return ErrStillLoading
	}

	if snap.IsAnonymous() {
		return ErrNotSignedIn
	}

	if utils.SliceHasPrefixMatch(adminSections, path) && !snap.IsAdmin() {
		return fmt.Errorf("%w: %s (%s) tried to open %s", ErrForbidden, snap.Session.Email, snap.Session.Role, path)
	}

	if utils.SliceHasPrefixMatch(staffSections, path) && !snap.IsAdmin() && !snap.IsBroker() {
		return fmt.Errorf("%w: %s (%s) tried to open %s", ErrForbidden, snap.Session.Email, snap.Session.Role, path)
	}

	return nil
}

// CanManageProperty is true for admins and for the property's owner
func CanManageProperty(snap session.Snapshot, ownerID int64) bool {
	if !snap.Settled() || snap.IsAnonymous() {
		return false
	}
	return snap.IsAdmin() || (ownerID != 0 && snap.Session.ID == ownerID)
}
