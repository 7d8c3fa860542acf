package session

import (
	"strconv"

	"github.com/ukydev/ototansan/internal/models"
)

// StatCard is one tile of the dashboard.
type StatCard struct {
	Title       string `json:"title"`
	Value       string `json:"value"`
	Description string `json:"description"`
}

// Dashboard is the role-specific dashboard panel.
type Dashboard struct {
	Title    string                 `json:"title"`
	Subtitle string                 `json:"subtitle"`
	Stats    Stats                  `json:"stats"`
	Cards    []StatCard             `json:"cards"`
	Recent   []models.ServiceRecord `json:"recent"`
}

// BuildDashboard lays out the dashboard for role.
func BuildDashboard(role models.Role, stats Stats, recent []models.ServiceRecord) Dashboard {
	d := Dashboard{Stats: stats, Recent: recent}

	switch role {
	case models.RoleAdmin:
		d.Title = "Dashboard Admin"
		d.Subtitle = "Ringkasan aktivitas servis di seluruh sistem."
		d.Cards = []StatCard{
			{Title: "Total Servis", Value: strconv.Itoa(stats.TotalServices), Description: "Total catatan di sistem"},
			{Title: "Kendaraan Aktif", Value: strconv.Itoa(stats.UniqueCars), Description: "Jumlah mobil terdaftar"},
			{Title: "Total Pelanggan", Value: strconv.Itoa(stats.TotalCustomers), Description: "Klien unik dilayani"},
			{Title: "Rata-rata KM", Value: stats.AverageKmLabel, Description: "Per interval servis"},
		}
	case models.RoleUser:
		d.Title = "Dashboard Saya"
		d.Subtitle = "Pantau status perawatan kendaraan Anda."
		d.Cards = []StatCard{
			{Title: "Servis Saya", Value: strconv.Itoa(stats.TotalServices), Description: "Kali kunjungan servis"},
			{Title: "Kendaraan Aktif", Value: strconv.Itoa(stats.UniqueCars), Description: "Jumlah mobil terdaftar"},
			{Title: "Servis Terakhir", Value: stats.LastServiceLabel, Description: "Aktivitas terbaru"},
			{Title: "Rata-rata KM", Value: stats.AverageKmLabel, Description: "Per interval servis"},
		}
	}

	return d
}

// Card returns the card with the given title.
func (d Dashboard) Card(title string) (StatCard, bool) {
	for _, c := range d.Cards {
		if c.Title == title {
			return c, true
		}
	}
	return StatCard{}, false
}
