package domain

type MenuItem struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
}

type Promotion struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
	ValidFrom   string `json:"validFrom"` // RFC 3339
	ValidUntil  string `json:"validUntil"`
}

type Review struct {
	ID           string `json:"id"`
	CustomerName string `json:"customerName"`
	Rating       int    `json:"rating"`
	Comment      string `json:"comment"`
	Date         string `json:"date"`
	Reply        string `json:"reply,omitempty"`
}

type GalleryImage struct {
	ID          string `json:"id"`
	Src         string `json:"src"`
	Alt         string `json:"alt"`
	Description string `json:"description,omitempty"`
}
