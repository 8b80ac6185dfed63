// Command uemesh converts exported skeletal and static meshes to glTF and
// renders WebP previews.
package main

func main() {
	Execute()
}
