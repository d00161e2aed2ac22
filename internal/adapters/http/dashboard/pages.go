// Package dashboard renders the Dubz Banking dashboard shell.
package dashboard

import "strings"

// Page is one entry of the page selector.
type Page struct {
	Name        string
	Placeholder string
}

var pages = []Page{ //nolint:gochecknoglobals // fixed navigation
	{Name: "Dashboard", Placeholder: "Dashboard coming soon..."},
	{Name: "Transactions", Placeholder: "Transaction management coming soon..."},
	{Name: "Investments", Placeholder: "Investment tracking coming soon..."},
	{Name: "Savings Goals", Placeholder: "Savings goals coming soon..."},
	{Name: "Reports", Placeholder: "Reporting coming soon..."},
}

// Pages returns the selectable pages in navigation order.
func Pages() []Page {
	out := make([]Page, len(pages))
	copy(out, pages)
	return out
}

// PageByName looks a page up case-insensitively. Unknown or empty names
// select the first page.
func PageByName(name string) Page {
	name = strings.TrimSpace(name)
	for _, p := range pages {
		if strings.EqualFold(p.Name, name) {
			return p
		}
	}
	return pages[0]
}
