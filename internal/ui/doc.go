package ui

// Package ui contains the HTML form front end. It wires form submissions to the
// retrieval facade and the archive builder, serves finished files from the
// output directory and exposes per-job progress for polling. All page texts
// are localized via Localization.
