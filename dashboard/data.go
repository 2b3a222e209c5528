package dashboard

// Data é o documento JSON servido em dashboard-data.json.
type Data struct {
	Dashboard *Dashboard `json:"dashboard"`
}

type Dashboard struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Stats    []Stat `json:"stats"`
	Cards    []Card `json:"cards"`
	Footer   Footer `json:"footer"`
}

type Stat struct {
	Number string `json:"number"`
	Label  string `json:"label"`
}

type Card struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon,omitempty"`
	Links       []Link `json:"links"`
}

type Link struct {
	Text     string `json:"text"`
	URL      string `json:"url"`
	Status   string `json:"status,omitempty"`
	External bool   `json:"external,omitempty"`
}

type Footer struct {
	Title string `json:"title"`
	Stats string `json:"stats"`
}

const (
	StatusOnline  = "online"
	StatusOffline = "offline"
)

// FallbackData é usado quando o carregamento falha por qualquer motivo.
func FallbackData() *Data {
	return &Data{
		Dashboard: &Dashboard{
			Title:    "Dashboard",
			Subtitle: "Data temporarily unavailable",
			Stats:    []Stat{},
			Cards:    []Card{},
			Footer: Footer{
				Title: "Dashboard",
				Stats: "Offline mode",
			},
		},
	}
}

// Clone faz uma cópia profunda. O valor em cache nunca é entregue diretamente
// para quem pode alterá-lo.
func (d *Data) Clone() *Data {
	if d == nil {
		return nil
	}
	out := &Data{}
	if d.Dashboard == nil {
		return out
	}
	db := *d.Dashboard
	db.Stats = append([]Stat(nil), d.Dashboard.Stats...)
	db.Cards = make([]Card, len(d.Dashboard.Cards))
	for i, c := range d.Dashboard.Cards {
		c.Links = append([]Link(nil), c.Links...)
		db.Cards[i] = c
	}
	out.Dashboard = &db
	return out
}

// Links percorre todos os links de todos os cards.
func (d *Data) Links(fn func(card *Card, link *Link)) {
	if d == nil || d.Dashboard == nil {
		return
	}
	for i := range d.Dashboard.Cards {
		card := &d.Dashboard.Cards[i]
		for j := range card.Links {
			fn(card, &card.Links[j])
		}
	}
}
