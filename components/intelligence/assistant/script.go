package assistant

// DefaultScript returns the built-in questions and answers for the community assistant.
func DefaultScript() Script {
	return Script{
		Suggestions: []SuggestedQuestion{
			{ID: "q-health", Text: "How healthy is our community this month?", Category: "health"},
			{ID: "q-churn", Text: "Which members are at risk of churning?", Category: "members"},
			{ID: "q-growth", Text: "Show me member growth over the last six months", Category: "growth"},
			{ID: "q-events", Text: "How did this month's events compare to last month?", Category: "events"},
			{ID: "q-sponsors", Text: "Which sponsor is delivering the best ROI?", Category: "sponsors"},
		},
		Responses: map[string]Response{
			"q-health": {
				Content: "Community health is at 82, up 5% from last month. Engagement and retention are both trending up, while new member activation is flat.",
				Cards: []DataCard{
					MetricCard{Label: "Health score", Value: 82, Trend: 5},
				},
			},
			"q-churn": {
				Content: "Three members show elevated churn risk. Most have not attended an event in over three weeks.",
				Cards: []DataCard{
					MembersCard{Title: "At-risk members", Members: []CardMember{
						{Name: "Maya Chen", Detail: "78% churn risk", Score: 22},
						{Name: "Jordan Reyes", Detail: "64% churn risk", Score: 36},
						{Name: "Priya Patel", Detail: "52% churn risk", Score: 48},
					}},
				},
			},
			"q-growth": {
				Content: "Membership grew from 1,240 to 2,180 over six months, a 76% increase. March saw the largest jump after the pickup league launched.",
				Cards: []DataCard{
					TrendCard{Title: "Members", Change: 76, Points: []TrendPoint{
						{Label: "Jan", Value: 1240},
						{Label: "Feb", Value: 1380},
						{Label: "Mar", Value: 1690},
						{Label: "Apr", Value: 1820},
						{Label: "May", Value: 1990},
						{Label: "Jun", Value: 2180},
					}},
				},
			},
			"q-events": {
				Content: "Events are up across the board. Attendance rose 18% and the number of hosted events went from 11 to 14.",
				Cards: []DataCard{
					ComparisonCard{Title: "Events vs last month", Items: []ComparisonItem{
						{Label: "Events hosted", Current: 14, Previous: 11},
						{Label: "Attendance", Current: 472, Previous: 400},
						{Label: "No-shows", Current: 38, Previous: 41},
					}},
				},
			},
			"q-sponsors": {
				Content: "Northside Coffee leads with a 320% ROI, driven by strong conversion at weekend events.",
				Cards: []DataCard{
					MetricCard{Label: "Best sponsor ROI", Value: 320, Trend: 12, Unit: "%"},
				},
			},
		},
		Fallback: Response{
			Content: "I don't have a specific answer for that yet. Try asking about community health, at-risk members, growth, events or sponsors.",
		},
	}
}
