package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case User:
		o.printUser(v)
	case []User:
		for _, u := range v {
			o.printUser(u)
			fmt.Println()
		}
	case AuthResult:
		o.printAuthResult(v)
	case Team:
		o.printTeam(v)
	case []Team:
		for _, t := range v {
			o.printTeam(t)
			fmt.Println()
		}
	case Challenge:
		o.printChallenge(v)
	case []Challenge:
		for _, c := range v {
			o.printChallenge(c)
			fmt.Println()
		}
	case Attempt:
		o.printAttempt(v)
	case []Attempt:
		for _, a := range v {
			o.printAttempt(a)
		}
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// User response type (matches API)
type User struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	Role     string  `json:"role"`
	TeamID   *string `json:"team_id"`
}

// AuthResult combines user and token
type AuthResult struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// TeamMember response type
type TeamMember struct {
	UserID   string    `json:"user_id"`
	Username string    `json:"username"`
	JoinedAt time.Time `json:"joined_at"`
}

// Team response type
type Team struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	CaptainID string       `json:"captain_id"`
	Members   []TeamMember `json:"members"`
	Invites   []string     `json:"invites,omitempty"`
}

// Challenge response type
type Challenge struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerID     string    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// Attempt response type
type Attempt struct {
	ID          string    `json:"id"`
	ChallengeID string    `json:"challenge_id"`
	TeamID      string    `json:"team_id"`
	UserID      string    `json:"user_id"`
	Correct     bool      `json:"correct"`
	CreatedAt   time.Time `json:"created_at"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printUser(u User) {
	fmt.Printf("User: %s (%s)\n", u.Username, u.ID)
	fmt.Printf("Role: %s\n", u.Role)
	if u.TeamID != nil {
		fmt.Printf("Team: %s\n", *u.TeamID)
	}
}

func (o *Output) printAuthResult(a AuthResult) {
	o.printUser(a.User)
	fmt.Printf("Token: %s\n", a.Token)
}

func (o *Output) printTeam(t Team) {
	fmt.Printf("Team: %s (%s)\n", t.Name, t.ID)
	fmt.Printf("Members (%d):\n", len(t.Members))
	for _, m := range t.Members {
		captainStr := ""
		if m.UserID == t.CaptainID {
			captainStr = " [captain]"
		}
		fmt.Printf("  - %s (%s)%s\n", m.Username, m.UserID, captainStr)
	}
	if len(t.Invites) > 0 {
		fmt.Printf("Pending invites (%d):\n", len(t.Invites))
		for _, inv := range t.Invites {
			fmt.Printf("  - %s\n", inv)
		}
	}
}

func (o *Output) printChallenge(c Challenge) {
	fmt.Printf("Challenge: %s (%s)\n", c.Name, c.ID)
	if c.Description != "" {
		fmt.Printf("Description: %s\n", c.Description)
	}
	fmt.Printf("Owner: %s\n", c.OwnerID)
}

func (o *Output) printAttempt(a Attempt) {
	verdict := "incorrect"
	if a.Correct {
		verdict = "correct"
	}
	fmt.Printf("%s  challenge=%s by=%s %s\n", a.CreatedAt.Format(time.RFC3339), a.ChallengeID, a.UserID, verdict)
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
