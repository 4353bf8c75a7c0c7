// Command chatbot is a terminal chat client with travel and coding assistants.
package main

import "github.com/Elijahuni/chatbot-1/internal/commands"

func main() {
	commands.Execute()
}
