package model

// Package model defines the request-scoped data structures shared by the
// retrieval facade, the archive builder and the web form: download requests
// with their parsed option values, item and collection metadata, download
// results and progress events. Nothing here is persisted.
