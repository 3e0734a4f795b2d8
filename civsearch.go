// Package civsearch turns a public website into a semantic search index and
// answers natural language questions against it. It crawls a site (pages,
// images, and linked documents), converts and chunks the content, embeds the
// chunks, and stores them in a vector index; a staged retrieval pipeline then
// translates, routes, searches, and answers user queries with citations.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., milvus/, ollama/, goquery/);
// orchestration lives in crawl/ and answer/.
package civsearch
