package exception

import "fmt"

// Block - a try/catch/finally group used by config validation to bail out
// on the first failed check
type Block struct {
	Try     func()
	Catch   func(error)
	Finally func()
}

// Throw - raises err to the enclosing Block
func Throw(err error) {
	panic(err)
}

// Do - runs Try, passes anything it throws to Catch and always runs Finally
func (block Block) Do() {
	if block.Try == nil {
		return
	}

	if block.Finally != nil {
		defer block.Finally()
	}

	if block.Catch != nil {
		defer func() {
			if r := recover(); r != nil {
				block.Catch(asError(r))
			}
		}()
	}
	block.Try()
}

func asError(r interface{}) error {
	if err, ok := r.(error); ok {
		return err
	}
	return fmt.Errorf("%v", r)
}
