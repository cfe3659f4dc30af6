package eval

import (
	"context"
	"io"
	"math/rand/v2"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nickandperla.net/chef/internal/fault"
	"nickandperla.net/chef/internal/recipe"
	"nickandperla.net/chef/internal/token"
)

func doc(ingredients, method string) string {
	return "Test Dish.\n\nIngredients.\n" + ingredients + "\n\nMethod.\n" + method + "\n\nServes 4.\n"
}

func newEval(t *testing.T, src string, opts ...Option) *Evaluator {
	t.Helper()
	r, err := recipe.ParseString(src)
	require.NoError(t, err)
	return New(r, opts...)
}

func bake(t *testing.T, src string, opts ...Option) (*Evaluator, string) {
	t.Helper()
	e := newEval(t, src, opts...)
	require.NoError(t, e.Run(context.Background()))
	out, err := e.Serve()
	require.NoError(t, err)
	return e, out
}

func lines(values ...string) InputReader {
	return func(prompt string) (string, error) {
		if len(values) == 0 {
			return "", io.EOF
		}
		v := values[0]
		values = values[1:]
		return v + "\n", nil
	}
}

func TestDryOutput(t *testing.T) {
	_, out := bake(t, doc("3 sugar",
		"Put sugar into the mixing bowl.\nPour contents of the mixing bowl into the baking dish."))
	assert.Equal(t, "3", out)
}

func TestLiquidOutput(t *testing.T) {
	_, out := bake(t, doc("72 ml water",
		"Put water into the mixing bowl.\nPour contents of the mixing bowl into the baking dish."))
	assert.Equal(t, "H", out)
}

func TestHelloWorld(t *testing.T) {
	src := `Hello World Souffle.

Ingredients.
72 g haricot beans
101 eggs
108 g lard
111 cups oil
32 zucchinis
119 ml water
114 g red salmon
100 g dijon mustard
33 potatoes

Method.
Put potatoes into the mixing bowl. Put dijon mustard into the mixing bowl. Put lard into the mixing bowl. Put red salmon into the mixing bowl. Put oil into the mixing bowl. Put water into the mixing bowl. Put zucchinis into the mixing bowl. Put oil into the mixing bowl. Put lard into the mixing bowl. Put lard into the mixing bowl. Put eggs into the mixing bowl. Put haricot beans into the mixing bowl. Liquefy contents of the mixing bowl. Pour contents of the mixing bowl into the baking dish.

Serves 1.
`
	_, out := bake(t, src)
	assert.Equal(t, "Hello world!", out)
}

func TestPourLeavesBowlAlone(t *testing.T) {
	e, out := bake(t, doc("1 a\n2 b",
		"Put a into the mixing bowl.\nPut b into the mixing bowl.\nFold a into the mixing bowl.\nStir b into the mixing bowl.\nPut a into the mixing bowl.\nPour contents of the mixing bowl into the baking dish.\nPour contents of the mixing bowl into the baking dish."))
	assert.Len(t, e.Bowls().At(1), 3)
	assert.Len(t, e.Dishes().At(1), 6)
	assert.Equal(t, "121121", out)
}

func TestArithmetic(t *testing.T) {
	tests := []struct {
		name   string
		method string
		want   int64
	}{
		{"add", "Add b to the mixing bowl.", 14},
		{"remove", "Remove b from the mixing bowl.", 6},
		{"combine", "Combine b into the mixing bowl.", 40},
		{"divide", "Divide b into the mixing bowl.", 2},
		{"add then remove", "Add b to the mixing bowl.\nRemove b from the mixing bowl.", 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := bake(t, doc("10 a\n4 b", "Put a into the mixing bowl.\n"+tt.method))
			bowl := e.Bowls().At(1)
			require.Len(t, bowl, 1)
			assert.Equal(t, tt.want, bowl[0].Value)
			assert.Equal(t, "a", bowl[0].Name)
		})
	}
}

func TestArithmeticKeepsKind(t *testing.T) {
	_, out := bake(t, doc("70 ml water\n2 g sugar",
		"Put water into the mixing bowl.\nAdd sugar to the mixing bowl.\nPour contents of the mixing bowl into the baking dish."))
	assert.Equal(t, "H", out)
}

func TestSnapshotsAreCopies(t *testing.T) {
	e, out := bake(t, doc("5 sugar",
		"Put sugar into the mixing bowl.\nTake sugar from refrigerator.\nPut sugar into the mixing bowl.\nPour contents of the mixing bowl into the baking dish."),
		WithInputReader(lines("9")))
	assert.Equal(t, "95", out)
	it, _ := e.Table().Get("sugar")
	assert.Equal(t, int64(9), it.Value)
}

func TestAddDryIngredients(t *testing.T) {
	e, _ := bake(t, doc("3 g flour\n4 eggs\n100 ml milk\n2 cups oil\n5 g butter",
		"Liquefy butter.\nAdd dry ingredients to the mixing bowl."))
	bowl := e.Bowls().At(1)
	require.Len(t, bowl, 1)
	assert.Equal(t, Item{Name: "dry ingredients", Value: 7, Kind: token.Dry}, bowl[0])
}

func TestLiquefyIsMonotone(t *testing.T) {
	e, out := bake(t, doc("65 cups oil",
		"Put oil into the mixing bowl.\nLiquefy contents of the mixing bowl.\nAdd oil to the mixing bowl.\nStir the mixing bowl for 2 minutes.\nRemove oil from the mixing bowl.\nPour contents of the mixing bowl into the baking dish."))
	assert.Equal(t, "A", out)
	assert.Equal(t, token.Liquid, e.Bowls().At(1)[0].Kind)

	it, _ := e.Table().Get("oil")
	assert.Equal(t, token.Ambiguous, it.Kind)
}

func TestStir(t *testing.T) {
	tests := []struct {
		minutes int
		want    []int64
	}{
		{0, []int64{1, 2, 3, 4}},
		{1, []int64{1, 2, 4, 3}},
		{2, []int64{1, 4, 2, 3}},
		{3, []int64{1, 2, 3, 4}},
		{4, []int64{1, 2, 4, 3}},
	}
	for _, tt := range tests {
		e, _ := bake(t, doc("1 a\n2 b\n3 c\n4 d",
			"Put a into the mixing bowl.\nPut b into the mixing bowl.\nPut c into the mixing bowl.\nPut d into the mixing bowl.\n"+
				"Stir the mixing bowl for "+strconv.Itoa(tt.minutes)+" minutes."))
		var got []int64
		for _, it := range e.Bowls().At(1) {
			got = append(got, it.Value)
		}
		assert.Equal(t, tt.want, got, "stir %d", tt.minutes)
	}
}

func TestMixIsAPermutation(t *testing.T) {
	e, _ := bake(t, doc("1 a\n2 b\n3 c\n4 d\n5 e",
		"Put a into the mixing bowl.\nPut b into the mixing bowl.\nPut c into the mixing bowl.\nPut d into the mixing bowl.\nPut e into the mixing bowl.\nMix the mixing bowl well."),
		WithSeed(42))
	var got []int64
	for _, it := range e.Bowls().At(1) {
		got = append(got, it.Value)
	}
	assert.ElementsMatch(t, []int64{1, 2, 3, 4, 5}, got)
}

func TestClean(t *testing.T) {
	e, out := bake(t, doc("1 a",
		"Put a into the mixing bowl.\nClean the mixing bowl.\nPour contents of the mixing bowl into the baking dish."))
	assert.Empty(t, e.Bowls().At(1))
	assert.Equal(t, "", out)
}

func TestNumberedContainers(t *testing.T) {
	e, out := bake(t, doc("1 a\n2 b",
		"Put a into the 1st mixing bowl.\nPut b into the 3rd mixing bowl.\nPour contents of the 3rd mixing bowl into the 2nd baking dish.\nPour contents of the 1st mixing bowl into the 1st baking dish."))
	assert.Equal(t, 3, e.Bowls().Len())
	assert.Equal(t, 2, e.Dishes().Len())
	assert.Empty(t, e.Bowls().At(2))
	assert.Equal(t, "12", out)
}

func TestServesLimitsDishes(t *testing.T) {
	src := "Two Dishes.\n\nIngredients.\n1 a\n2 b\n\nMethod.\nPut a into the 1st mixing bowl.\nPut b into the 2nd mixing bowl.\n" +
		"Pour contents of the 1st mixing bowl into the 1st baking dish.\nPour contents of the 2nd mixing bowl into the 2nd baking dish.\n\nServes 1.\n"
	_, out := bake(t, src)
	assert.Equal(t, "1", out)

	_, out = bake(t, strings.Replace(src, "Serves 1.", "Serves 2.", 1))
	assert.Equal(t, "12", out)
}

func TestDishOutputTopFirst(t *testing.T) {
	_, out := bake(t, doc("1 a\n2 b\n3 c",
		"Put a into the mixing bowl.\nPut b into the mixing bowl.\nPour contents of the mixing bowl into the baking dish.\nClean the mixing bowl.\nPut c into the mixing bowl.\nPour contents of the mixing bowl into the baking dish."))
	assert.Equal(t, "321", out)
}

func TestRefrigerateHalts(t *testing.T) {
	e, out := bake(t, doc("1 a\n2 b",
		"Put a into the mixing bowl.\nPour contents of the mixing bowl into the baking dish.\nRefrigerate for 2 hours.\nPut b into the mixing bowl.\nPour contents of the mixing bowl into the baking dish."))
	assert.Equal(t, "1", out)
	assert.Len(t, e.Bowls().At(1), 1)
	assert.Equal(t, 3, e.Steps())
}

func TestLoopRunsCounterTimes(t *testing.T) {
	e, _ := bake(t, doc("3 counter",
		"Count the counter.\nPut counter into the mixing bowl.\nCount the counter until counted."))
	var got []int64
	for _, it := range e.Bowls().At(1) {
		got = append(got, it.Value)
	}
	assert.Equal(t, []int64{3, 2, 1}, got)
	it, _ := e.Table().Get("counter")
	assert.Equal(t, int64(0), it.Value)
	assert.Equal(t, 0, e.Depth())
}

func TestLoopZeroSkipsBody(t *testing.T) {
	e, _ := bake(t, doc("0 counter\n1 a",
		"Count the counter.\nPut a into the mixing bowl.\nCount the counter until counted.\nPut a into the 1st mixing bowl."))
	assert.Len(t, e.Bowls().At(1), 1)
	assert.Equal(t, 2, e.Steps())
}

func TestLoopDecrementsOtherIngredient(t *testing.T) {
	e, _ := bake(t, doc("1 outer\n5 inner",
		"Heat the outer.\nChop the outer.\nChop the outer until chopped.\nPut inner into the mixing bowl.\nHeat the inner until heated."))
	it, _ := e.Table().Get("inner")
	assert.Equal(t, int64(4), it.Value)
	it, _ = e.Table().Get("outer")
	assert.Equal(t, int64(0), it.Value)
	bowl := e.Bowls().At(1)
	require.Len(t, bowl, 1)
	assert.Equal(t, int64(5), bowl[0].Value)
}

func TestNestedLoops(t *testing.T) {
	e, _ := bake(t, doc("2 rows\n0 cols\n1 a",
		"Bake the rows.\nTake cols from refrigerator.\nChop the cols.\nPut a into the mixing bowl.\nChop the cols until chopped.\nBake the rows until baked."),
		WithInputReader(lines("3", "2")))
	assert.Len(t, e.Bowls().At(1), 5)
	rows, _ := e.Table().Get("rows")
	cols, _ := e.Table().Get("cols")
	assert.Equal(t, int64(0), rows.Value)
	assert.Equal(t, int64(0), cols.Value)
	assert.Equal(t, 0, e.Depth())
}

func TestSetAsideLeavesLoop(t *testing.T) {
	e, _ := bake(t, doc("3 counter\n1 a",
		"Beat the counter.\nPut a into the mixing bowl.\nSet aside.\nPut a into the mixing bowl.\nBeat the counter until beaten.\nPut counter into the mixing bowl."))
	var got []int64
	for _, it := range e.Bowls().At(1) {
		got = append(got, it.Value)
	}
	assert.Equal(t, []int64{1, 3}, got)
	assert.Equal(t, 0, e.Depth())
}

func TestSetAsideInnermostOnly(t *testing.T) {
	e, _ := bake(t, doc("2 outer\n3 inner\n1 a",
		"Beat the outer.\nWhisk the inner.\nPut a into the mixing bowl.\nSet aside.\nWhisk the inner until whisked.\nBeat the outer until beaten."))
	assert.Len(t, e.Bowls().At(1), 2)
	it, _ := e.Table().Get("inner")
	assert.Equal(t, int64(3), it.Value)
	assert.Equal(t, 0, e.Depth())
}

func TestTake(t *testing.T) {
	_, out := bake(t, doc("0 n",
		"Take n from refrigerator.\nPut n into the mixing bowl.\nTake n from refrigerator.\nPut n into the mixing bowl.\nPour contents of the mixing bowl into the baking dish."),
		WithInputReader(lines(" 12 ", "7")))
	assert.Equal(t, "712", out)
}

func TestTakeLastLineWithoutNewline(t *testing.T) {
	e := newEval(t, doc("0 n", "Take n from refrigerator."),
		WithInputReader(func(string) (string, error) { return "42", io.EOF }))
	require.NoError(t, e.Run(context.Background()))
	it, _ := e.Table().Get("n")
	assert.Equal(t, int64(42), it.Value)
}

func TestRuntimeErrors(t *testing.T) {
	tests := []struct {
		name   string
		method string
		input  InputReader
		code   fault.Code
		want   string
	}{
		{"fold empty", "Fold a into the mixing bowl.", nil, fault.Runtime, "mixing bowl 1 is empty"},
		{"add empty", "Add a to the 2nd mixing bowl.", nil, fault.Runtime, "mixing bowl 2 is empty"},
		{"stir empty", "Stir for 2 minutes.", nil, fault.Runtime, "mixing bowl 1 is empty"},
		{"divide by zero", "Put a into the mixing bowl.\nDivide zero into the mixing bowl.", nil, fault.Runtime, "zero"},
		{"unnumbered after numbered", "Put a into the 2nd mixing bowl.\nPut a into the mixing bowl.", nil, fault.Runtime, "without a number"},
		{"unnumbered dish after numbered", "Put a into the mixing bowl.\nPour contents of the mixing bowl into the 1st baking dish.\nPour contents of the mixing bowl into the baking dish.", nil, fault.Runtime, "baking dish may not be used"},
		{"loop ingredient", "Beat the eggs.\nBeat the eggs until beaten.", nil, fault.Runtime, "ingredient not found: eggs"},
		{"take exhausted", "Take a from refrigerator.", lines(), fault.Input, "refrigerator is empty"},
		{"take no input", "Take a from refrigerator.", nil, fault.Input, "no input"},
		{"take not a number", "Take a from refrigerator.", lines("many"), fault.Input, "not a number"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var opts []Option
			if tt.input != nil {
				opts = append(opts, WithInputReader(tt.input))
			}
			e := newEval(t, doc("1 a\n0 zero", tt.method), opts...)
			err := e.Run(context.Background())
			require.Error(t, err)
			var fe *fault.Error
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tt.code, fe.Code)
			assert.Equal(t, "method", fe.Section)
			assert.Greater(t, fe.Line, 0)
			assert.Contains(t, fe.Message, tt.want)
			assert.True(t, fault.IsRuntime(err))
		})
	}
}

func TestStepLimit(t *testing.T) {
	e := newEval(t, doc("1 forever", "Spin the forever.\nSpin until spun."), WithStepLimit(100))
	err := e.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "step limit of 100 exceeded")
	assert.Equal(t, 100, e.Steps())
}

func TestContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e := newEval(t, doc("1 a", "Put a into the mixing bowl."))
	err := e.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.True(t, fault.IsRuntime(err))
}

func TestServeWithIsSkipped(t *testing.T) {
	src := doc("1 a", "Put a into the mixing bowl.\nServe with sauce.\nPour contents of the mixing bowl into the baking dish.") +
		"\nSauce.\n\nIngredients.\n1 b\n\nMethod.\nPut b into the mixing bowl.\n"
	_, out := bake(t, src)
	assert.Equal(t, "1", out)
}

func TestRunResetsState(t *testing.T) {
	e := newEval(t, doc("1 a", "Put a into the mixing bowl.\nPour contents of the mixing bowl into the baking dish."))
	require.NoError(t, e.Run(context.Background()))
	require.NoError(t, e.Run(context.Background()))
	out, err := e.Serve()
	require.NoError(t, err)
	assert.Equal(t, "1", out)
}

func TestServeRejectsInvalidCharacters(t *testing.T) {
	tests := []struct {
		name        string
		ingredients string
	}{
		{"wider than a rune", "4294967368 ml water"},
		{"negative", "0 ml water\n1 g salt"},
		{"above max rune", "1114112 ml water"},
		{"surrogate", "55296 ml water"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method := "Put water into the mixing bowl.\n"
			if tt.name == "negative" {
				method += "Remove salt from the mixing bowl.\n"
			}
			e := newEval(t, doc(tt.ingredients, method+"Pour contents of the mixing bowl into the baking dish."))
			require.NoError(t, e.Run(context.Background()))
			out, err := e.Serve()
			require.Error(t, err)
			assert.Empty(t, out)
			assert.Equal(t, fault.Runtime, fault.CodeOf(err))
			assert.Contains(t, err.Error(), "not a character")
		})
	}
}

func TestContainerNumberLimit(t *testing.T) {
	r := &recipe.Recipe{
		Title:       "Too Many Bowls",
		Ingredients: []*recipe.Ingredient{{Name: "a", Value: 1}},
		Method: []*recipe.Instruction{
			{Op: token.PUT, Ingredient: "a", Bowl: token.MaxContainers + 1, Line: 7},
		},
	}
	e := New(r)
	err := e.Run(context.Background())
	require.Error(t, err)
	var fe *fault.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, fault.Runtime, fe.Code)
	assert.Equal(t, 7, fe.Line)
	assert.Contains(t, fe.Message, "too large")
	assert.Equal(t, 1, e.Bowls().Len())

	r.Method[0].Bowl = token.MaxContainers
	require.NoError(t, e.Run(context.Background()))
	assert.Equal(t, token.MaxContainers, e.Bowls().Len())
}

func TestWithRandMatchesSeed(t *testing.T) {
	src := doc("1 a\n2 b\n3 c\n4 d\n5 e\n6 f",
		"Put a into the mixing bowl.\nPut b into the mixing bowl.\nPut c into the mixing bowl.\n"+
			"Put d into the mixing bowl.\nPut e into the mixing bowl.\nPut f into the mixing bowl.\n"+
			"Mix well.\nPour contents of the mixing bowl into the baking dish.")
	_, seeded := bake(t, src, WithSeed(9))
	_, explicit := bake(t, src, WithRand(rand.New(rand.NewPCG(9, 9))))
	assert.Equal(t, seeded, explicit)
}
