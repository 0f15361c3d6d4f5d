// Package knowledge provides a searchable document store for company
// knowledge such as team pages and communication plans.
//
// Documents live in SQLite with an FTS5 index over title and content.
// Searches are keyword based and ranked by bm25:
//
//	store, _ := knowledge.Open(knowledge.DefaultDBPath())
//	results, _ := store.Search(ctx, "Phoenix stakeholders", knowledge.SearchOptions{TopK: 3, Project: "Phoenix"})
//
// ExtractStakeholders pulls people and their email addresses out of search
// results for addressing status updates.
package knowledge
