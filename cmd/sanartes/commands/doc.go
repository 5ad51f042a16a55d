// Package commands wires the sanartes cobra commands.
//
//	sanartes              interactive menu (same as "sanartes menu")
//	sanartes report       print the consolidated report as JSON
//	sanartes export       write the report file and publish it to the sinks
//	sanartes stats NAME   print the specialized report of one project
//	sanartes history      list exports archived by the sqlite sink
//	sanartes worker       copy archived exports to Google Sheets
package commands
