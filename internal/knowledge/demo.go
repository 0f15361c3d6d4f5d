package knowledge

import (
	"context"
	"fmt"
)

// DemoDocuments are the sample team and communication pages.
func DemoDocuments() []Document {
	return []Document{
		{
			ID:    "doc_phoenix_team",
			Title: "Project Phoenix - Team Structure",
			Content: `Project Phoenix Team Structure

Core Team:
- Product Lead: Sarah Chen (VP Product) - sarah.chen@company.com
- Engineering Lead: Michael Rodriguez (Senior Director Engineering) - michael.r@company.com
- Design Lead: Jessica Wong (Design Manager) - jessica.wong@company.com

Executive Sponsors:
- David Park (CTO)
- Emily Thompson (VP Engineering)

External Stakeholders:
- Acme Corp - Primary Customer
- TechVendor Inc - API Integration Partner`,
			Project:     "Phoenix",
			Source:      "confluence://projects/phoenix/team",
			DocType:     "confluence",
			LastUpdated: "2026-02-01",
		},
		{
			ID:    "doc_phoenix_comm",
			Title: "Project Phoenix - Communication Plan",
			Content: `Project Phoenix Communication Plan

Weekly status updates should be sent to:
- phoenix-team@company.com (internal team, ~15 people)
- executives-phoenix@company.com (CTO, VP Eng, VP Product)
- For external updates, include customer-success@acmecorp.com

Escalation path for blockers:
1. Team Lead (Michael Rodriguez)
2. VP Engineering (Emily Thompson)
3. CTO (David Park)

Status update cadence:
- Daily: Standup at 9:00 AM
- Weekly: Email update on Tuesdays
- Monthly: Executive review`,
			Project:     "Phoenix",
			Source:      "confluence://projects/phoenix/communication",
			DocType:     "confluence",
			LastUpdated: "2026-01-15",
		},
		{
			ID:    "doc_atlas_overview",
			Title: "Project Atlas - Overview",
			Content: `Project Atlas Team

Project Atlas is focused on backend infrastructure improvements.

Team Members:
- Tech Lead: Alex Kumar
- Backend Engineers: 4 developers
- DevOps: 2 engineers

Status: On track
Timeline: Q1 2026 completion target`,
			Project:     "Atlas",
			Source:      "confluence://projects/atlas/overview",
			DocType:     "confluence",
			LastUpdated: "2026-02-01",
		},
	}
}

// SeedDemo loads DemoDocuments into an empty store. It reports how many
// documents were added; a store that already has content is left alone.
func (s *Store) SeedDemo(ctx context.Context) (int, error) {
	n, err := s.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}
	docs := DemoDocuments()
	for _, d := range docs {
		if _, err := s.Add(ctx, d); err != nil {
			return 0, fmt.Errorf("seed %s: %w", d.ID, err)
		}
	}
	return len(docs), nil
}
