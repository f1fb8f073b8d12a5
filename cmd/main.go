// hotspot 命令行：由芯片布局构建热电路并计算温度
package main

func main() {
	Execute()
}
