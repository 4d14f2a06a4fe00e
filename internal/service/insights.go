package service

import (
	"net/url"
	"strings"
)

// SalaryEstimates maps a job title to an indicative annual range.
var SalaryEstimates = map[string]string{
	"Data Analyst":      "€40,000 - €50,000 / year",
	"Data Scientist":    "€45,000 - €60,000 / year",
	"UX Designer":       "€38,000 - €48,000 / year",
	"Marketing Manager": "€42,000 - €55,000 / year",
	"Product Manager":   "€50,000 - €70,000 / year",
	"Software Engineer": "€45,000 - €65,000 / year",
}

// NoSalaryData is reported for titles without an estimate.
const NoSalaryData = "No data available."

// Insight bundles the salary estimate and internship search links for a title.
type Insight struct {
	Title       string `json:"title"`
	Salary      string `json:"salary"`
	GoogleURL   string `json:"google_url"`
	LinkedInURL string `json:"linkedin_url"`
}

// Insights looks up the salary estimate for title, matched case-insensitively,
// and builds internship search links.
func Insights(title string) Insight {
	title = strings.TrimSpace(title)
	salary := NoSalaryData
	for k, v := range SalaryEstimates {
		if strings.EqualFold(k, title) {
			salary = v
			break
		}
	}
	return Insight{
		Title:       title,
		Salary:      salary,
		GoogleURL:   GoogleSearchURL(title + " Internships"),
		LinkedInURL: "https://www.linkedin.com/jobs/search/?keywords=" + url.PathEscape(title+" Internship"),
	}
}

// GoogleSearchURL returns a Google search link for the query.
func GoogleSearchURL(query string) string {
	return "https://www.google.com/search?q=" + url.QueryEscape(query)
}
