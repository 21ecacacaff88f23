package workbench

// Placeholder is the program the source buffer starts with
const Placeholder = `// Write Go code here
package main

import "fmt"

func main() {
    ch := make(chan int)   // Create channel ch
    go func(ch chan int) { // Spawn goroutine
        ch <- 42           // Send value to ch
    }(ch)
    fmt.Println(<-ch)      // Recv value from ch
}
`
