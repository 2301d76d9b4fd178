package benchmark

import "github.com/kaizenhq/kaizen/internal/models"

// DefaultFamily is the built-in benchmark family used when no catalog file
// is supplied.
const DefaultFamily = "humaneval-mini"

// DefaultCatalog returns the built-in problem catalog so the tool runs out
// of the box without a catalog file.
func DefaultCatalog() *Catalog {
	return &Catalog{family: DefaultFamily, problems: defaultProblems}
}

var defaultProblems = []models.Problem{
	{
		ID:         "he-mini-001",
		Language:   "python",
		EntryPoint: "add",
		Prompt:     "Write a function add(a, b) that returns the sum of two integers.",
		Test: `def check(candidate):
    assert candidate(1, 2) == 3
    assert candidate(-4, 4) == 0
    assert candidate(0, 0) == 0
`,
	},
	{
		ID:         "he-mini-002",
		Language:   "python",
		EntryPoint: "reverse_words",
		Prompt:     "Write a function reverse_words(s) that reverses the order of words in a string. Words are separated by single spaces.",
		Test: `def check(candidate):
    assert candidate("hello world") == "world hello"
    assert candidate("a") == "a"
    assert candidate("one two three") == "three two one"
`,
	},
	{
		ID:         "he-mini-003",
		Language:   "python",
		EntryPoint: "fizzbuzz",
		Prompt:     "Write a function fizzbuzz(n) returning 'Fizz' for multiples of 3, 'Buzz' for multiples of 5, 'FizzBuzz' for both, otherwise str(n).",
		Test: `def check(candidate):
    assert candidate(3) == "Fizz"
    assert candidate(5) == "Buzz"
    assert candidate(15) == "FizzBuzz"
    assert candidate(7) == "7"
`,
	},
	{
		ID:         "he-mini-004",
		Language:   "python",
		EntryPoint: "unique_sorted",
		Prompt:     "Write a function unique_sorted(xs) that returns the distinct elements of a list of integers in ascending order.",
		Test: `def check(candidate):
    assert candidate([3, 1, 2, 3, 1]) == [1, 2, 3]
    assert candidate([]) == []
    assert candidate([5]) == [5]
`,
	},
	{
		ID:         "he-mini-005",
		Language:   "python",
		EntryPoint: "is_palindrome",
		Prompt:     "Write a function is_palindrome(s) that returns True when s reads the same forwards and backwards, ignoring case.",
		Test: `def check(candidate):
    assert candidate("Level") is True
    assert candidate("kaizen") is False
    assert candidate("") is True
`,
	},
}
