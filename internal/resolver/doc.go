// Package resolver enumerates IDE configuration roots.
//
// A root holds one directory per installed product version (for example
// Rider2025.1 or IntelliJIdea2024.3.2). Each directory name is split into a
// product family and a version token, and the known recent-project metadata
// files inside its options directory are reported as Sources for parsing.
package resolver
