// Command-line chat client against the chatai gateway.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"chatai/chatai/client"
	"chatai/chatai/client/localstore"
	"chatai/chatai/utils/logging"

	"go.uber.org/zap"
)

const requestTimeout = 60 * time.Second

func main() {
	logging.InitLogger()

	baseURL := os.Getenv("CHATAI_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}

	c := client.New(baseURL, localstore.New(cachePath()))

	fmt.Println("chatai terminal client:", baseURL)
	if c.Authenticated() {
		fmt.Println("Restored cached session.")
	} else {
		fmt.Println("Not logged in. Use 'register' or 'login' first.")
	}
	for _, turn := range c.Transcript() {
		printTurn(turn)
	}
	fmt.Println("Commands: register, login, logout, exit. Anything else is sent as a question.")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("chatai> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "exit", "quit":
			fmt.Println("Goodbye!")
			return
		case "register":
			register(scanner, c)
		case "login":
			login(scanner, c)
		case "logout":
			c.Logout()
			fmt.Println("Logged out.")
		default:
			ask(c, line)
		}
	}
}

func register(scanner *bufio.Scanner, c *client.Client) {
	username := prompt(scanner, "username: ")
	email := prompt(scanner, "email: ")
	password := prompt(scanner, "password: ")

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	if err := c.Register(ctx, username, email, password); err != nil {
		fmt.Println("register failed:", err)
		return
	}
	fmt.Printf("Registered and logged in as %s.\n", c.Session().User.Username)
}

func login(scanner *bufio.Scanner, c *client.Client) {
	email := prompt(scanner, "email: ")
	password := prompt(scanner, "password: ")

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	if err := c.Login(ctx, email, password); err != nil {
		fmt.Println("login failed:", err)
		return
	}
	fmt.Printf("Logged in as %s.\n", c.Session().User.Username)
}

func ask(c *client.Client, question string) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	answer, err := c.Submit(ctx, question)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println()
	fmt.Println(answer)
	fmt.Println()
}

func prompt(scanner *bufio.Scanner, label string) string {
	fmt.Print(label)
	if !scanner.Scan() {
		return ""
	}
	return strings.TrimSpace(scanner.Text())
}

func printTurn(turn localstore.Turn) {
	prefix := "you"
	if turn.Type == "answer" {
		prefix = "bot"
	}
	fmt.Printf("[%s] %s\n", prefix, turn.Content)
}

func cachePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		logging.ErrorLogger.Warn("cannot resolve home dir, caching in cwd", zap.Error(err))
		return ".chatai.json"
	}
	return filepath.Join(home, ".chatai.json")
}
