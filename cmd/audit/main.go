// Comando audit: validación de libros y extracción de XML DIAN desde la terminal.
package main

func main() {
	Execute()
}
