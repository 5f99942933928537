// Command voyage is a conversational travel planner: it interviews the
// traveller, suggests destinations and writes a day-by-day itinerary.
package main

func main() {
	Execute()
}
