// Package spotbugs reads SpotBugs XML reports.
//
// [Parse] decodes one BugCollection document into its declared source
// directories and raw bug instances in document order. [Discover] expands
// report file patterns (doublestar globs, "**" allowed) into a sorted list of
// report paths.
package spotbugs
