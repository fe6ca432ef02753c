package lesson

import "github.com/mehmetcc/financeu/internal/tier"

// Lesson is an entry of the static curriculum. Each pillar is gated behind a
// single membership tier.
type Lesson struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Pillar       int       `json:"pillar"`
	RequiredTier tier.Tier `json:"requiredTier"`
}

var pillarTiers = map[int]tier.Tier{
	1: tier.Free,
	2: tier.Premium,
	3: tier.Pro,
}

var catalog = []Lesson{
	{ID: "pillar1-lesson1", Pillar: 1, Title: "What is Money?", Description: "Understand the fundamental concept of money and its role in society"},
	{ID: "pillar1-lesson2", Pillar: 1, Title: "Understanding Income and Expenses", Description: "Learn the difference between money coming in and money going out"},
	{ID: "pillar1-lesson3", Pillar: 1, Title: "The Time Value of Money", Description: "Discover why money today is worth more than money tomorrow"},
	{ID: "pillar1-lesson4", Pillar: 1, Title: "Needs vs. Wants", Description: "Master the crucial skill of distinguishing between necessities and desires"},
	{ID: "pillar1-lesson5", Pillar: 1, Title: "Setting Financial Goals", Description: "Learn how to set and achieve meaningful financial objectives"},
	{ID: "pillar1-lesson6", Pillar: 1, Title: "Introduction to Banking", Description: "Understand how banks work and the services they offer"},
	{ID: "pillar1-lesson7", Pillar: 1, Title: "Tracking Your Money", Description: "Discover simple methods to monitor your financial activities"},
	{ID: "pillar1-lesson8", Pillar: 1, Title: "Building Good Money Habits", Description: "Develop daily practices that lead to long-term financial success"},

	{ID: "pillar2-lesson1", Pillar: 2, Title: "Setting SMART Financial Goals", Description: "Turn vague wishes into specific, measurable targets"},
	{ID: "pillar2-lesson2", Pillar: 2, Title: "Short-term vs. Long-term Planning", Description: "Balance what you need this month with what you want in ten years"},
	{ID: "pillar2-lesson3", Pillar: 2, Title: "Creating Actionable Timelines", Description: "Break a goal into steps with dates you can actually hit"},
	{ID: "pillar2-lesson4", Pillar: 2, Title: "Tracking Progress Effectively", Description: "Measure how far you have come and adjust the plan"},

	{ID: "pillar3-lesson1", Pillar: 3, Title: "Why Investing Matters", Description: "See how compounding turns small contributions into real wealth"},
	{ID: "pillar3-lesson2", Pillar: 3, Title: "Stocks, Bonds and Funds", Description: "Learn what you actually own when you buy each kind of asset"},
	{ID: "pillar3-lesson3", Pillar: 3, Title: "Risk and Diversification", Description: "Understand volatility and how spreading money out reduces it"},
	{ID: "pillar3-lesson4", Pillar: 3, Title: "Building Your First Portfolio", Description: "Put together a simple, low-cost portfolio you can stick with"},
}

func init() {
	for i := range catalog {
		catalog[i].RequiredTier = pillarTiers[catalog[i].Pillar]
	}
}

// Catalog returns every lesson in curriculum order.
func Catalog() []Lesson {
	out := make([]Lesson, len(catalog))
	copy(out, catalog)
	return out
}

func Find(id string) (Lesson, bool) {
	for _, l := range catalog {
		if l.ID == id {
			return l, true
		}
	}
	return Lesson{}, false
}

// ForTier returns the lessons gated exactly at t.
func ForTier(t tier.Tier) []Lesson {
	out := make([]Lesson, 0)
	for _, l := range catalog {
		if l.RequiredTier == t {
			out = append(out, l)
		}
	}
	return out
}
