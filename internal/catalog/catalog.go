// Package catalog holds the static problem-indicator table. Selecting an
// indicator deterministically yields the risk tier, business impact and
// recommended action for a new ticket.
package catalog

import "github.com/spec-kit/leak-ticket-service/internal/domain"

// Entry maps one problem indicator to its derived assessment.
type Entry struct {
	Indicator      string
	RiskLevel      domain.RiskLevel
	RiskLabel      string
	BusinessImpact string
	Recommendation string
}

var entries = []Entry{
	{
		Indicator:      "Plafon roboh di area publik/apoteker, kabel terbakar, atau bocor tepat di atas stok obat mahal/kulkas vaksin.",
		RiskLevel:      domain.RiskLevelCritical,
		RiskLabel:      "P1 - CRITICAL",
		BusinessImpact: "Operasional berhenti sebagian/total, risiko cedera manusia, kerugian stok masif.",
		Recommendation: "Perbaikan darurat sumber kebocoran dan penggantian total plafon yang roboh.",
	},
	{
		Indicator:      "Bocor deras di area gudang/belakang, plafon melandai (tunggu roboh), air masuk ke area penjualan tapi belum mengenai stok.",
		RiskLevel:      domain.RiskLevelHigh,
		RiskLabel:      "P2 - HIGH",
		BusinessImpact: "Operasional terganggu, risiko kerusakan aset bangunan meningkat jika dibiarkan >24 jam.",
		Recommendation: "Perbaikan atap/pipa segera dan penguatan struktur plafon yang melandai.",
	},
	{
		Indicator:      "Rembesan air ( spotting), plafon berjamur, bocor hanya saat hujan sangat deras, area non-vital (toilet/parkir).",
		RiskLevel:      domain.RiskLevelMedium,
		RiskLabel:      "P3 - MEDIUM",
		BusinessImpact: "Estetika buruk, kenyamanan pelanggan terganggu, tapi bisnis tetap jalan.",
		Recommendation: "Pembersihan jamur, pengecatan ulang, dan penambalan titik rembesan.",
	},
}

// Entries returns the full catalog in display order.
func Entries() []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}

// Lookup resolves an indicator to its catalog entry.
func Lookup(indicator string) (Entry, bool) {
	for _, e := range entries {
		if e.Indicator == indicator {
			return e, true
		}
	}
	return Entry{}, false
}
