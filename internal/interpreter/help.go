package interpreter

const HelpText = `Available commands:
let <var> = <expr>   Set variable
print <var>          Print variable
exit                 Exit the interpreter
help                 Show this help message
vars                 List all variables
clearvars            Clear all variables
clear                Clear the screen
NOTE: Variables are case-sensitive!
`
