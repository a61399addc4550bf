package main

import "github.com/nikogura/docx-tailor/cmd"

func main() {
	cmd.Execute()
}
