// Command automator browses the Work at a Startup board, extracts listings and
// drafts a cover letter for each selected role.
//
// Usage:
//
//	automator run
//	automator letter --listing job.json --description job.txt
package main

func main() {
	Execute()
}
