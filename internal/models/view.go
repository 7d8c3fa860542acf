package models

import "fmt"

// View selects which panel the session is showing.
type View string

const (
	ViewDashboard  View = "dashboard"
	ViewHistory    View = "history"
	ViewAddService View = "add-service"
	ViewProducts   View = "products"
	ViewAddProduct View = "add-product"
)

// DefaultView is shown after login and logout.
const DefaultView = ViewDashboard

// NavItem is one entry of the navigation bar.
type NavItem struct {
	Label string `json:"label"`
	View  View   `json:"view"`
}

// Navigation lists the panels reachable from the header, in display order.
var Navigation = []NavItem{
	{Label: "Beranda", View: ViewDashboard},
	{Label: "Riwayat Servis", View: ViewHistory},
	{Label: "Catat Servis", View: ViewAddService},
	{Label: "Produk & Layanan", View: ViewProducts},
}

// ParseView converts a string into a View.
func ParseView(s string) (View, error) {
	v := View(s)
	switch v {
	case ViewDashboard, ViewHistory, ViewAddService, ViewProducts, ViewAddProduct:
		return v, nil
	default:
		return "", fmt.Errorf("unknown view %q", s)
	}
}

// AllowedFor reports whether a role may open the view.
func (v View) AllowedFor(role Role) bool {
	switch v {
	case ViewDashboard, ViewHistory, ViewAddService, ViewProducts:
		return IsValidRole(role)
	case ViewAddProduct:
		return role == RoleAdmin
	default:
		return false
	}
}
