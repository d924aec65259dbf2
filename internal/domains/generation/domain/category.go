package domain

import "strings"

// Subcategory narrows a Category, addressed as "category.subcategory".
type Subcategory struct {
	ID          string
	Name        string
	NameTurkish string
}

// Category is a business vertical offered to callers.
type Category struct {
	ID            string
	Name          string
	NameTurkish   string
	Subcategories []Subcategory
}

// Label returns the category name in the requested language.
func (c Category) Label(lang Language) string {
	if lang == LanguageTurkish {
		return c.NameTurkish
	}
	return c.Name
}

// Label returns the subcategory name in the requested language.
func (s Subcategory) Label(lang Language) string {
	if lang == LanguageTurkish {
		return s.NameTurkish
	}
	return s.Name
}

var catalog = []Category{
	{
		ID: "ecommerce", Name: "E-Commerce & Online Business", NameTurkish: "E-Ticaret ve Online İşletme",
		Subcategories: []Subcategory{
			{ID: "dropshipping", Name: "Dropshipping", NameTurkish: "Dropshipping"},
			{ID: "amazon", Name: "Amazon FBA & Marketplace", NameTurkish: "Amazon FBA ve Pazaryeri"},
			{ID: "digital", Name: "Digital Product Stores", NameTurkish: "Dijital Ürün Mağazaları"},
			{ID: "shopify", Name: "E-Commerce Brands & Shopify", NameTurkish: "E-Ticaret Markaları ve Shopify"},
		},
	},
	{
		ID: "finance", Name: "Finance & Crypto", NameTurkish: "Finans ve Kripto",
		Subcategories: []Subcategory{
			{ID: "fintech", Name: "Fintech & Digital Banking", NameTurkish: "Fintech ve Dijital Bankacılık"},
			{ID: "crypto", Name: "Crypto & Blockchain", NameTurkish: "Kripto ve Blockchain"},
			{ID: "investment", Name: "Investment Platforms", NameTurkish: "Yatırım Platformları"},
			{ID: "payment", Name: "Payment Systems", NameTurkish: "Ödeme Sistemleri"},
		},
	},
	{
		ID: "health", Name: "Fitness & Health", NameTurkish: "Spor ve Sağlık",
		Subcategories: []Subcategory{
			{ID: "fitness", Name: "Fitness & Gym", NameTurkish: "Fitness ve Spor Salonu"},
			{ID: "sports", Name: "Sportswear & Equipment", NameTurkish: "Spor Giyim ve Ekipman"},
			{ID: "nutrition", Name: "Health Supplements", NameTurkish: "Sağlık Takviyeleri"},
			{ID: "coaching", Name: "Online Coaching", NameTurkish: "Online Koçluk"},
		},
	},
	{
		ID: "education", Name: "Education & E-Learning", NameTurkish: "Eğitim ve E-Öğrenme",
		Subcategories: []Subcategory{
			{ID: "courses", Name: "Online Course Platforms", NameTurkish: "Online Kurs Platformları"},
			{ID: "academic", Name: "Academic Institutions", NameTurkish: "Akademik Kurumlar"},
			{ID: "coding", Name: "Coding & Technical Training", NameTurkish: "Kodlama ve Teknik Eğitim"},
			{ID: "career", Name: "Career & Personal Development", NameTurkish: "Kariyer ve Kişisel Gelişim"},
		},
	},
	{
		ID: "gaming", Name: "Gaming & Entertainment", NameTurkish: "Oyun ve Eğlence",
		Subcategories: []Subcategory{
			{ID: "studios", Name: "Indie Game Studios", NameTurkish: "Bağımsız Oyun Stüdyoları"},
			{ID: "esports", Name: "Esports Teams & Communities", NameTurkish: "E-Spor Takımları ve Toplulukları"},
			{ID: "content", Name: "Content Creators", NameTurkish: "İçerik Üreticileri"},
			{ID: "streaming", Name: "Music & Streaming Platforms", NameTurkish: "Müzik ve Yayın Platformları"},
		},
	},
}

// Categories returns a copy of the catalog.
func Categories() []Category {
	out := make([]Category, len(catalog))
	copy(out, catalog)
	return out
}

// SearchCategories matches the query against category and subcategory labels in one language.
func SearchCategories(query string, lang Language) []Category {
	term := strings.ToLower(strings.TrimSpace(query))
	if term == "" {
		return Categories()
	}
	var out []Category
	for _, c := range catalog {
		if strings.Contains(strings.ToLower(c.Label(lang)), term) {
			out = append(out, c)
			continue
		}
		for _, sub := range c.Subcategories {
			if strings.Contains(strings.ToLower(sub.Label(lang)), term) {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// DescribeCategory turns a "category" or "category.subcategory" id into a prompt label.
// Unknown ids are passed through verbatim so free-form categories still work.
func DescribeCategory(id string, lang Language) string {
	id = strings.TrimSpace(id)
	parentID, subID, hasSub := strings.Cut(id, ".")
	for _, c := range catalog {
		if !strings.EqualFold(c.ID, parentID) {
			continue
		}
		if !hasSub {
			return c.Label(lang)
		}
		for _, sub := range c.Subcategories {
			if strings.EqualFold(sub.ID, subID) {
				return c.Label(lang) + " / " + sub.Label(lang)
			}
		}
		return c.Label(lang)
	}
	return id
}
