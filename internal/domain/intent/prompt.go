package intent

import (
	"fmt"
	"strings"
)

type promptEntry struct {
	name     string
	trigger  string
	examples string
	entities string
}

var lookupPrompts = []promptEntry{
	{FindEmployeeProjects, "the user wants to know which projects an employee is on", `"what projects is X working on?", "show me X's projects"`, ""},
	{GetEmployeeAllocation, "the user asks for the total allocation of an employee", `"what is X's allocation?", "how much is X allocated?"`, ""},
	{GetEmployeeSkills, "the user asks for an employee's skills", `"what are X's skills?", "show me the skills for X"`, ""},
	{GetEmployeePhone, "the user asks for an employee's phone number", `"what is X's phone number?", "find the phone for X"`, ""},
	{GetEmployeeDepartment, "the user asks for an employee's department", `"which department is X in?", "what is X's department?"`, ""},
	{GetEmployeeDesignation, "the user asks for an employee's designation", `"what is X's designation?", "what is X's role?"`, ""},
	{GetEmployeeID, "the user asks for an employee's ID", `"what is X's employee ID?", "employee id for X"`, ""},
	{GetEmployeeExperience, "the user asks for an employee's experience", `"how much experience does X have?", "what is X's experience?"`, ""},
	{GetEmployeeEmail, "the user asks for an employee's email", `"what is the email for X?", "email address of X"`, ""},
	{GetEmployeeDOJ, "the user asks for an employee's date of joining", `"when did X join?", "what is the joining date for X?"`, ""},
	{GetEmployeeLocation, "the user asks for an employee's location", `"where is X located?", "location of X"`, ""},
	{GetEmployeeDetails, "the user asks for all details of an employee", `"give me the details of X", "show me everything for X"`, ""},
}

// Prompt builds the parser instruction for text. designations limits the
// values the model may return for search_candidate.
func Prompt(text string, designations []string) string {
	quoted := make([]string, 0, len(designations))
	for _, d := range designations {
		quoted = append(quoted, fmt.Sprintf("%q", d))
	}

	entries := make([]promptEntry, 0, len(lookupPrompts)+3)
	entries = append(entries, promptEntry{
		SearchCandidate,
		"the user is looking for an employee to hire or allocate",
		`"Find me a developer", "I need a devops engineer with AWS for 50%"`,
		fmt.Sprintf("`designation` (string, must be one of [%s]), `skills` (array of strings), `allocation_needed` (integer)", strings.Join(quoted, ", ")),
	})
	entries = append(entries, lookupPrompts...)
	entries = append(entries,
		promptEntry{
			AllocateProject,
			"the user wants to allocate an employee to a project",
			`"allocate X to Project Alpha from 2025-01-01 to 2025-06-30 with 40% allocation"`,
			"`employee_name` (string), `project_name` (string), `start_date` (string, YYYY-MM-DD), `end_date` (string, YYYY-MM-DD), `allocation` (integer)",
		},
		promptEntry{Other, "the query does not match any other intent", `"hello", "what is the weather today?"`, "none"},
	)

	var b strings.Builder
	b.WriteString("You are a query-parsing assistant for an employee management system. ")
	b.WriteString("Convert the user's prompt into a JSON object of the form {\"intent\": string, \"entities\": object}.\n")
	b.WriteString("Your response MUST be only the JSON object and nothing else.\n\n")
	b.WriteString("Possible intents and the entities to extract for each:\n\n")
	for i, e := range entries {
		entities := e.entities
		if entities == "" {
			entities = "`employee_name` (string)"
		}
		fmt.Fprintf(&b, "%d. Intent `%s`\n   Triggered when %s. Examples: %s\n   Entities: %s.\n", i+1, e.name, e.trigger, e.examples, entities)
	}
	fmt.Fprintf(&b, "\nUser's prompt: %q\n\nJSON response:", text)
	return b.String()
}
