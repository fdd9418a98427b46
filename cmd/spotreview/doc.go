// Spotreview reports SpotBugs defects found in the files a change touches.
//
// It runs the SpotBugs Gradle task, reads the XML reports, resolves every
// defect onto a repository-relative path and emits one comment per defect in
// a changed file: to the console, as GitHub Actions annotations, or as a pull
// request review.
//
// Usage:
//
//	spotreview report                          # working tree changes
//	spotreview report --base origin/main       # changes on the branch
//	spotreview report --skip-gradle-task --report-file 'app/build/**/spotbugs/*.xml'
//	spotreview report --pr 42 --sink github    # post a PR review
//	spotreview config show
package main
