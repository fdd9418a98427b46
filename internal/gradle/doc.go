// Package gradle runs the Gradle wrapper task that produces SpotBugs reports.
package gradle
