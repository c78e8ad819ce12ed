package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: docbuilder <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  serve      Run the document API server")
	fmt.Fprintln(w, "  generate   Generate document HTML from a metadata file")
	fmt.Fprintln(w, "  render     Render a document file to PDF")
	fmt.Fprintln(w, "  doctor     Check the browser and system setup")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'docbuilder help <command>' for details on a specific command.")
}

func printCommonFlags(w io.Writer) {
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Debug logging")
}

func printRenderFlags(w io.Writer) {
	fmt.Fprintln(w, "Browser:")
	fmt.Fprintln(w, "  -t, --timeout <d>         PDF render timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w, "  -w, --workers <n>         Concurrent browsers (0 = auto)")
	fmt.Fprintln(w, "      --browser-bin <path>  Chrome/Chromium executable")
	fmt.Fprintln(w, "      --sandbox             Keep the Chrome sandbox enabled")
}

// printServeUsage prints usage for the serve command.
func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: docbuilder serve [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run the HTTP API for documents, templates and senders.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Server:")
	fmt.Fprintln(w, "  -a, --addr <addr>         Listen address (default :8080)")
	fmt.Fprintln(w, "      --db <dsn>            Database DSN (sqlite path or postgres URL)")
	printCommonFlags(w)
	fmt.Fprintln(w)
	printRenderFlags(w)
}

// printGenerateUsage prints usage for the generate command.
func printGenerateUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: docbuilder generate <metadata.yaml> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate the HTML body of a business document from its metadata.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  metadata    YAML file with docType, clientName, price, language, ...")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file (default: stdout)")
	fmt.Fprintln(w, "      --prompt              Print the LLM prompt instead of HTML")
	printCommonFlags(w)
}

// printRenderUsage prints usage for the render command.
func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: docbuilder render <document.yaml> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render a document to an A4 PDF with header and footer.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  document    YAML file with docType, clientName, generatedBody, editedBody, ...")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file (default: input name with .pdf)")
	fmt.Fprintln(w, "      --html-only           Write the print-ready HTML, skip the browser")
	printCommonFlags(w)
	fmt.Fprintln(w)
	printRenderFlags(w)
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: docbuilder doctor [--json] [-c config]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check the browser, sandbox and temp directory setup.")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "serve":
		printServeUsage(env.Stdout)
	case "generate":
		printGenerateUsage(env.Stdout)
	case "render":
		printRenderUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: docbuilder version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: docbuilder help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
