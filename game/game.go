// Package game is the small number-guessing program that exercises intlist and memtrack outside
// of the self-tests.
package game

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"strconv"

	"github.com/c-linkage/software-post/intlist"
)

// Populate adds count random values in [0, maxValue) to the list. It returns false if the list
// could not allocate a node; values added before that point stay in the list.
func Populate(list *intlist.List, rng *rand.Rand, count, maxValue int) bool {
	for i := 0; i < count; i++ {
		if !list.Add(rng.Intn(maxValue)) {
			return false
		}
	}
	return true
}

// Play asks for up to maxTries guesses read from in, one word per guess, and returns true as soon
// as a guess is in the list. A word that is not a number counts as a wrong guess. Running out of
// input ends the game without an error.
func Play(in io.Reader, out io.Writer, list *intlist.List, maxTries int) (bool, error) {
	scanner := bufio.NewScanner(in)
	scanner.Split(bufio.ScanWords)

	for i := 0; i < maxTries; i++ {
		fmt.Fprintf(out, "You have %d tries to pick one of my numbers.\n", maxTries-i)
		fmt.Fprintln(out, "What number do you guess?")
		if !scanner.Scan() {
			return false, scanner.Err()
		}
		guess, err := strconv.Atoi(scanner.Text())
		if err == nil && list.Contains(guess) {
			fmt.Fprintln(out, "You guessed right!")
			return true, nil
		}
		fmt.Fprintln(out, "You guess wrong!")
	}
	return false, nil
}
