package agent

// Markers of the text protocol shared by the prompt builder and the parser.
const (
	MarkerThought     = "Thought:"
	MarkerAction      = "Action:"
	MarkerActionInput = "Action Input:"
	MarkerObservation = "Observation:"
	MarkerFinalAnswer = "Final Answer:"
)

// Decision is the parsed intent of one completion: either Act or Finish.
type Decision interface {
	isDecision()
}

// Act asks the loop to invoke Tool with Input.
type Act struct {
	Thought string
	Tool    string
	Input   string
}

// Finish ends the run with Answer.
type Finish struct {
	Thought string
	Answer  string
}

func (Act) isDecision()    {}
func (Finish) isDecision() {}
