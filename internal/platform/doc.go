package platform

// Package platform contains filesystem and external tooling glue: directory
// creation, filename sanitizing, fuzzy lookup of files written by yt-dlp,
// output-directory containment checks and native playlist enumeration.
