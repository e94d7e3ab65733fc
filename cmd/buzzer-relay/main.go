// Command buzzer-relay polls the Wild Warden buzzer status and drives a
// serial buzzer accordingly.
package main

import "github.com/wildwarden/buzzer-relay/cmd/buzzer-relay/cmd"

func main() {
	cmd.Execute()
}
