// Package color holds the lipgloss styles used for human-readable CLI
// output, such as the table printed by "azmcp tools list".
//
// Styles use adaptive colors. Call Initialize once to pin the background
// detection, which keeps output stable when stdout is not a terminal.
//
//	color.Initialize(true)
//	fmt.Println(color.HeaderStyle.Render("NAME"))
//
// NO_COLOR is honoured by lipgloss's renderer.
package color
