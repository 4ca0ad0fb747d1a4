package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// logLevelEnv switches on debug logging when set to "debug".
const logLevelEnv = "CIRCLE_RANSAC_LOG_LEVEL"

var rootCmd = &cobra.Command{
	Use:   "circle-ransac",
	Short: "Detect circles in edge images with RANSAC",
	Long: `circle-ransac finds circles in a binary edge image. It repeatedly fits a
circle through three random edge pixels, accepts it when enough of its
circumference lies on edges, erases it from the image and continues until
interrupted, out of edges, or out of iterations.

It also runs as an MCP server exposing the same operations as tools.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (built %s, commit %s)", Version, BuildTime, GitCommit)
}

func main() {
	// Logging goes to stderr; stdout carries results and the MCP protocol.
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	if debugEnabled() {
		log.Printf("circle-ransac v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func debugEnabled() bool {
	return os.Getenv(logLevelEnv) == "debug"
}

// debugLogger returns the standard logger when debug logging is on.
func debugLogger() *log.Logger {
	if debugEnabled() {
		return log.Default()
	}
	return nil
}
